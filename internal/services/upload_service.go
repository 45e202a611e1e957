package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/danuarth/cvscout/internal/models"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/storage"
	"github.com/danuarth/cvscout/internal/utils"
)

// AnalysisJob is the queue message handed from the upload path to the
// analysis workers. The uploader's identity travels with the job so the
// worker runs the same permission check as a direct caller.
type AnalysisJob struct {
	CVUploadID string `json:"cv_upload_id"`
	FileURL    string `json:"file_url"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	CompanyID  string `json:"company_id"`
	Attempts   int    `json:"attempts"`
}

// Enqueuer hands an analysis job to the queue.
type Enqueuer interface {
	EnqueueAnalysis(ctx context.Context, job AnalysisJob) error
}

type UploadService interface {
	Upload(ctx context.Context, ident models.Identity, fileName string, fileSize int64, mimeType string, r io.Reader) (*models.CVUpload, error)
}

type uploadService struct {
	uploads  pgrepo.CVUploadRepository
	uploader storage.Uploader
	queue    Enqueuer
	log      *logrus.Logger
}

func NewUploadService(uploads pgrepo.CVUploadRepository, uploader storage.Uploader, queue Enqueuer, log *logrus.Logger) UploadService {
	if log == nil {
		log = logrus.New()
	}
	return &uploadService{uploads: uploads, uploader: uploader, queue: queue, log: log}
}

func (s *uploadService) Upload(ctx context.Context, ident models.Identity, fileName string, fileSize int64, mimeType string, r io.Reader) (*models.CVUpload, error) {
	const op = "UploadService.Upload"

	if ident.UserID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if ident.CompanyID == "" {
		// applicant without a tenant cannot upload; nothing to scope the CV to
		return nil, utils.E(utils.CodeUnauthorized, op, "no company membership", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("cv-uploads/%s/%s-%d-%s",
		ident.CompanyID, ident.UserID, now.UnixMilli(), sanitizeFileName(fileName))

	// blob first; a failure here leaves no record behind
	fileURL, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.CVUpload{
		ID:        uuid.NewString(),
		UserID:    ident.UserID,
		CompanyID: ident.CompanyID,
		FileName:  fileName,
		FilePath:  objectName,
		FileURL:   fileURL,
		FileSize:  fileSize,
		MimeType:  mimeType,
		CreatedAt: now,
	}
	if err := s.uploads.Insert(ctx, row); err != nil {
		// the blob is orphaned until the sweeper reclaims it
		return nil, utils.E(utils.CodeInternal, op, "failed to persist cv upload", err)
	}

	job := AnalysisJob{
		CVUploadID: row.ID,
		FileURL:    fileURL,
		UserID:     ident.UserID,
		Role:       string(ident.Role),
		CompanyID:  ident.CompanyID,
	}
	if err := s.queue.EnqueueAnalysis(ctx, job); err != nil {
		// the upload stands; the row stays pending until a manual retry
		s.log.WithFields(logrus.Fields{
			"cv_upload_id": row.ID,
			"user_id":      ident.UserID,
		}).WithError(err).Warn("failed to enqueue analysis")
	}

	return row, nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "cv.pdf"
	}
	return name
}
