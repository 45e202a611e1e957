package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/danuarth/cvscout/internal/cache"
	"github.com/danuarth/cvscout/internal/extract"
	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/providers/llm"
	mongorepo "github.com/danuarth/cvscout/internal/repositories/mongo"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/utils"
)

// analysisLockTTL caps how long a crashed run can block retries.
const analysisLockTTL = 2 * time.Minute

type AnalysisService interface {
	// Analyze runs the full pipeline for one tracking record: permission
	// check, document fetch, text extraction, inference, parse, persist.
	// Parse failures degrade to a raw-text result; they never fail the run.
	Analyze(ctx context.Context, ident models.Identity, cvUploadID, fileURL string) (extract.Result, error)
	Attempts(ctx context.Context, ident models.Identity, cvUploadID string) ([]models.AnalysisAttempt, error)
}

type analysisService struct {
	uploads   pgrepo.CVUploadRepository
	attempts  mongorepo.AttemptRepository
	fetcher   extract.Fetcher
	extractor extract.TextExtractor
	provider  llm.Provider
	locker    cache.Locker
	log       *logrus.Logger
}

func NewAnalysisService(
	uploads pgrepo.CVUploadRepository,
	attempts mongorepo.AttemptRepository,
	fetcher extract.Fetcher,
	extractor extract.TextExtractor,
	provider llm.Provider,
	locker cache.Locker,
	log *logrus.Logger,
) AnalysisService {
	if log == nil {
		log = logrus.New()
	}
	return &analysisService{
		uploads:   uploads,
		attempts:  attempts,
		fetcher:   fetcher,
		extractor: extractor,
		provider:  provider,
		locker:    locker,
		log:       log,
	}
}

func (s *analysisService) Analyze(ctx context.Context, ident models.Identity, cvUploadID, fileURL string) (extract.Result, error) {
	const op = "AnalysisService.Analyze"

	var zero extract.Result
	if cvUploadID == "" || fileURL == "" {
		return zero, utils.E(utils.CodeInvalidArgument, op, "file_url and cv_upload_id are required", nil)
	}
	if ident.UserID == "" {
		return zero, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}

	row, err := s.uploads.GetByID(ctx, cvUploadID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return zero, utils.E(utils.CodeNotFound, op, "CV upload not found", err)
		}
		return zero, utils.E(utils.CodeInternal, op, "failed to load cv upload", err)
	}

	if !canAccessUpload(ident, row) {
		return zero, utils.E(utils.CodeForbidden, op, "permission denied", nil)
	}

	if s.locker != nil {
		lockKey := "cv:analysis:lock:" + cvUploadID
		ok, lockErr := s.locker.Acquire(ctx, lockKey, analysisLockTTL)
		if lockErr != nil {
			// lock store down: run anyway, overwrite semantics keep this safe
			s.log.WithError(lockErr).WithField("cv_upload_id", cvUploadID).Warn("analysis lock unavailable")
		} else if !ok {
			return zero, utils.E(utils.CodeConflict, op, "analysis already in progress", nil)
		} else {
			defer func() { _ = s.locker.Release(context.WithoutCancel(ctx), lockKey) }()
		}
	}

	doc, err := s.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		return zero, utils.E(utils.CodeUnavailable, op, "could not fetch CV file", err)
	}

	cvText, err := s.extractor.Text(doc)
	if err != nil {
		s.recordAttempt(ctx, row.ID, ident.UserID, "failed", false, "", err, 0)
		return zero, utils.E(utils.CodeInvalidArgument, op, "document has no extractable text", err)
	}

	start := time.Now()
	raw, err := s.provider.GenerateContent(ctx, extract.BuildPrompt(cvText))
	duration := time.Since(start)
	if err != nil {
		s.recordAttempt(ctx, row.ID, ident.UserID, "failed", false, "", err, duration)
		return zero, utils.E(utils.CodeUnavailable, op, "failed to analyze CV", err)
	}

	result := extract.ParseModelOutput(raw)

	payload, err := json.Marshal(result)
	if err != nil {
		return zero, utils.E(utils.CodeInternal, op, "failed to encode analysis result", err)
	}

	var skills []string
	if result.Profile != nil {
		skills = result.Profile.Skills
	}

	if err := s.uploads.SetResult(ctx, row.ID, datatypes.JSON(payload), skills, time.Now().UTC()); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return zero, utils.E(utils.CodeNotFound, op, "CV upload not found", err)
		}
		return zero, utils.E(utils.CodeInternal, op, "failed to update CV analysis", err)
	}

	s.recordAttempt(ctx, row.ID, ident.UserID, "ok", result.Structured(), raw, nil, duration)
	return result, nil
}

func (s *analysisService) Attempts(ctx context.Context, ident models.Identity, cvUploadID string) ([]models.AnalysisAttempt, error) {
	const op = "AnalysisService.Attempts"

	if cvUploadID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cv_upload_id is required", nil)
	}
	row, err := s.uploads.GetByID(ctx, cvUploadID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "CV upload not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load cv upload", err)
	}
	if !canAccessUpload(ident, row) {
		return nil, utils.E(utils.CodeForbidden, op, "permission denied", nil)
	}
	if s.attempts == nil {
		return nil, nil
	}

	out, err := s.attempts.ListByUpload(ctx, cvUploadID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list analysis attempts", err)
	}
	return out, nil
}

// canAccessUpload is the tenancy matrix: the applicant who owns the record,
// or an admin of the record's company. Everything else is denied.
func canAccessUpload(ident models.Identity, row *models.CVUpload) bool {
	switch ident.Role {
	case models.RoleApplicant:
		return row.UserID == ident.UserID
	case models.RoleCompanyAdmin:
		return ident.CompanyID != "" && row.CompanyID == ident.CompanyID
	default:
		return false
	}
}

func (s *analysisService) recordAttempt(ctx context.Context, uploadID, requestedBy, status string, structured bool, raw string, cause error, duration time.Duration) {
	if s.attempts == nil {
		return
	}

	attempt := &models.AnalysisAttempt{
		CVUploadID:  uploadID,
		RequestedBy: requestedBy,
		Status:      status,
		Structured:  structured,
		ResponseRaw: raw,
		DurationMS:  duration.Milliseconds(),
	}
	if s.provider != nil {
		attempt.Model = s.provider.ModelName()
	}
	if cause != nil {
		attempt.Error = cause.Error()
	}

	if err := s.attempts.Insert(context.WithoutCancel(ctx), attempt); err != nil {
		s.log.WithError(err).WithField("cv_upload_id", uploadID).Warn("failed to record analysis attempt")
	}
}
