package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

type CompanyRepository interface {
	Insert(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByOwner(ctx context.Context, userID string) (*models.Company, error)
	// OwnedBy answers the gate's role fallback: a user owning a company row
	// is a company admin.
	OwnedBy(ctx context.Context, userID string) (bool, error)
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Insert(ctx context.Context, c *models.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *companyRepo) GetByOwner(ctx context.Context, userID string) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", userID).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *companyRepo) OwnedBy(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("owner_user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
