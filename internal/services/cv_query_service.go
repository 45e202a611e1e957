package services

import (
	"context"
	"errors"

	"github.com/danuarth/cvscout/internal/models"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/utils"
)

// CVQueryService serves the dashboard and profile read paths under the same
// tenancy rules as analysis.
type CVQueryService interface {
	ListForCompany(ctx context.Context, ident models.Identity, limit int) ([]models.CVUpload, int64, error)
	ListForUser(ctx context.Context, ident models.Identity, limit int) ([]models.CVUpload, error)
	Get(ctx context.Context, ident models.Identity, id string) (*models.CVUpload, error)
}

type cvQueryService struct {
	uploads pgrepo.CVUploadRepository
}

func NewCVQueryService(uploads pgrepo.CVUploadRepository) CVQueryService {
	return &cvQueryService{uploads: uploads}
}

func (s *cvQueryService) ListForCompany(ctx context.Context, ident models.Identity, limit int) ([]models.CVUpload, int64, error) {
	const op = "CVQueryService.ListForCompany"

	if ident.Role != models.RoleCompanyAdmin || ident.CompanyID == "" {
		return nil, 0, utils.E(utils.CodeForbidden, op, "permission denied", nil)
	}

	rows, err := s.uploads.ListByCompany(ctx, ident.CompanyID, limit)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list cv uploads", err)
	}
	total, err := s.uploads.CountByCompany(ctx, ident.CompanyID)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to count cv uploads", err)
	}
	return rows, total, nil
}

func (s *cvQueryService) ListForUser(ctx context.Context, ident models.Identity, limit int) ([]models.CVUpload, error) {
	const op = "CVQueryService.ListForUser"

	if ident.UserID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	rows, err := s.uploads.ListByUser(ctx, ident.UserID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cv uploads", err)
	}
	return rows, nil
}

func (s *cvQueryService) Get(ctx context.Context, ident models.Identity, id string) (*models.CVUpload, error) {
	const op = "CVQueryService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	row, err := s.uploads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "CV upload not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load cv upload", err)
	}
	if !canAccessUpload(ident, row) {
		return nil, utils.E(utils.CodeForbidden, op, "permission denied", nil)
	}
	return row, nil
}
