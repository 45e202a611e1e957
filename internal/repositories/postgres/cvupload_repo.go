package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

type CVUploadRepository interface {
	Insert(ctx context.Context, u *models.CVUpload) error
	GetByID(ctx context.Context, id string) (*models.CVUpload, error)
	ListByCompany(ctx context.Context, companyID string, limit int) ([]models.CVUpload, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.CVUpload, error)
	// SetResult overwrites the analysis outcome. Re-running analysis on the
	// same row replaces the prior result.
	SetResult(ctx context.Context, id string, result datatypes.JSON, skills []string, analyzedAt time.Time) error
	ExistsByFilePath(ctx context.Context, filePath string) (bool, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)
}

type cvUploadRepo struct {
	db *gorm.DB
}

func NewCVUploadRepo(db *gorm.DB) CVUploadRepository {
	return &cvUploadRepo{db: db}
}

func (r *cvUploadRepo) Insert(ctx context.Context, u *models.CVUpload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *cvUploadRepo) GetByID(ctx context.Context, id string) (*models.CVUpload, error) {
	var row models.CVUpload
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *cvUploadRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]models.CVUpload, error) {
	var rows []models.CVUpload
	q := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *cvUploadRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.CVUpload, error) {
	var rows []models.CVUpload
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *cvUploadRepo) SetResult(ctx context.Context, id string, result datatypes.JSON, skills []string, analyzedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.CVUpload{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"extracted_result": result,
			"skills":           pq.StringArray(skills),
			"analyzed_at":      analyzedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *cvUploadRepo) ExistsByFilePath(ctx context.Context, filePath string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CVUpload{}).
		Where("file_path = ?", filePath).
		Count(&count).Error
	return count > 0, err
}

func (r *cvUploadRepo) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CVUpload{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}
