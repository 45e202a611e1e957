package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danuarth/cvscout/internal/models"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/utils"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	// RegisterCompany creates the admin user, the company row, and the
	// membership backfill in one transaction.
	RegisterCompany(ctx context.Context, email, password, companyName, industry string) (*models.User, *models.Company, string, error)
	// RegisterApplicant creates an applicant bound to an existing company
	// (reached via the company's registration link).
	RegisterApplicant(ctx context.Context, email, password, companyID string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	db        *gorm.DB
	users     pgrepo.UserRepository
	companies pgrepo.CompanyRepository
}

func NewAuthService(db *gorm.DB, users pgrepo.UserRepository, companies pgrepo.CompanyRepository) AuthService {
	return &authService{db: db, users: users, companies: companies}
}

func (s *authService) RegisterCompany(ctx context.Context, email, password, companyName, industry string) (*models.User, *models.Company, string, error) {
	const op = "AuthService.RegisterCompany"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || companyName == "" || industry == "" {
		return nil, nil, "", utils.E(utils.CodeInvalidArgument, op, "email, name, and industry are required", nil)
	}
	if len(password) < 6 {
		return nil, nil, "", utils.E(utils.CodeInvalidArgument, op, "password must be at least 6 characters long", nil)
	}
	if err := s.ensureEmailFree(ctx, op, email); err != nil {
		return nil, nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCompanyAdmin,
		CreatedAt:    now,
	}
	company := &models.Company{
		ID:          uuid.NewString(),
		Name:        companyName,
		Industry:    industry,
		OwnerUserID: user.ID,
		CreatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pgrepo.NewUserRepo(tx).Insert(ctx, user); err != nil {
			return err
		}
		if err := pgrepo.NewCompanyRepo(tx).Insert(ctx, company); err != nil {
			return err
		}
		return pgrepo.NewUserRepo(tx).SetMembership(ctx, user.ID, company.ID, models.RoleCompanyAdmin)
	})
	if err != nil {
		return nil, nil, "", utils.E(utils.CodeInternal, op, "failed to register company", err)
	}
	user.CompanyID = &company.ID

	token, err := s.mintToken(user)
	if err != nil {
		return nil, nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return user, company, token, nil
}

func (s *authService) RegisterApplicant(ctx context.Context, email, password, companyID string) (*models.User, string, error) {
	const op = "AuthService.RegisterApplicant"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || companyID == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and company_id are required", nil)
	}
	if len(password) < 6 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "password must be at least 6 characters long", nil)
	}

	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to verify company", err)
	}
	if err := s.ensureEmailFree(ctx, op, email); err != nil {
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleApplicant,
		CompanyID:    &companyID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to register applicant", err)
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return user, token, nil
}

func (s *authService) ensureEmailFree(ctx context.Context, op, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return utils.E(utils.CodeConflict, op, "this email is already registered", nil)
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to check email", err)
	}
	return nil
}

func (s *authService) mintToken(u *models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	companyID := ""
	if u.CompanyID != nil {
		companyID = *u.CompanyID
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        u.ID,
		"role":       string(u.Role),
		"company_id": companyID,
		"iat":        now.Unix(),
		"exp":        now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
