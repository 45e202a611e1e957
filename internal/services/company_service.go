package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/danuarth/cvscout/internal/models"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/utils"
)

type CompanyService interface {
	// Create is the fallback creation path: the company row plus the
	// owner's membership promotion, for users registered before their
	// company existed.
	Create(ctx context.Context, name, industry, userID string) (*models.Company, error)
	GetForAdmin(ctx context.Context, ident models.Identity) (*models.Company, error)
	// RegistrationLink builds the applicant sign-up URL an admin shares.
	RegistrationLink(ctx context.Context, ident models.Identity) (string, error)
}

type companyService struct {
	companies pgrepo.CompanyRepository
	users     pgrepo.UserRepository
	baseURL   string
}

func NewCompanyService(companies pgrepo.CompanyRepository, users pgrepo.UserRepository, baseURL string) CompanyService {
	return &companyService{companies: companies, users: users, baseURL: baseURL}
}

func (s *companyService) Create(ctx context.Context, name, industry, userID string) (*models.Company, error) {
	const op = "CompanyService.Create"

	if name == "" || industry == "" || userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name, industry, and user_id are required", nil)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	owned, err := s.companies.OwnedBy(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check company ownership", err)
	}
	if owned {
		return nil, utils.E(utils.CodeConflict, op, "user already owns a company", nil)
	}

	company := &models.Company{
		ID:          uuid.NewString(),
		Name:        name,
		Industry:    industry,
		OwnerUserID: userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.companies.Insert(ctx, company); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}

	if err := s.users.SetMembership(ctx, userID, company.ID, models.RoleCompanyAdmin); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to set company membership", err)
	}

	return company, nil
}

func (s *companyService) GetForAdmin(ctx context.Context, ident models.Identity) (*models.Company, error) {
	const op = "CompanyService.GetForAdmin"

	if ident.CompanyID == "" {
		return nil, utils.E(utils.CodeNotFound, op, "no company membership", nil)
	}
	c, err := s.companies.GetByID(ctx, ident.CompanyID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	return c, nil
}

func (s *companyService) RegistrationLink(ctx context.Context, ident models.Identity) (string, error) {
	const op = "CompanyService.RegistrationLink"

	if ident.CompanyID == "" {
		return "", utils.E(utils.CodeForbidden, op, "caller has no company", nil)
	}
	if s.baseURL == "" {
		return "", utils.E(utils.CodeInternal, op, "PUBLIC_BASE_URL is not set", nil)
	}

	q := url.Values{}
	q.Set("type", "applicant")
	q.Set("company_id", ident.CompanyID)
	return s.baseURL + "/register?" + q.Encode(), nil
}
