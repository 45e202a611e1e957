package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/storage"
)

// ObjectStore is what the sweeper needs from the blob store.
type ObjectStore interface {
	storage.Lister
	storage.Remover
}

// OrphanSweeper reclaims blobs whose row insert never happened. The upload
// path writes blob-then-row without a transaction, so a crash or insert
// failure in between leaves an object with no owner; anything past the TTL
// with no cv_uploads row is deleted.
type OrphanSweeper struct {
	Store   ObjectStore
	Uploads pgrepo.CVUploadRepository
	Logger  *logrus.Logger

	Prefix   string
	TTL      time.Duration
	Interval time.Duration
}

func (s *OrphanSweeper) Start(ctx context.Context) {
	if s.Prefix == "" {
		s.Prefix = "cv-uploads/"
	}
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
	if s.Interval <= 0 {
		s.Interval = time.Hour
	}
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep runs one pass and returns how many orphans were removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) int {
	removed := 0
	cutoff := time.Now().Add(-s.TTL)

	err := s.Store.List(ctx, s.Prefix, func(obj storage.ObjectInfo) error {
		// young objects may still be waiting for their row insert
		if obj.Created.After(cutoff) {
			return nil
		}

		exists, err := s.Uploads.ExistsByFilePath(ctx, obj.Name)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if err := s.Store.Remove(ctx, obj.Name); err != nil {
			s.Logger.WithError(err).WithField("object", obj.Name).Warn("failed to remove orphaned blob")
			return nil
		}
		removed++
		s.Logger.WithField("object", obj.Name).Info("removed orphaned blob")
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).Warn("orphan sweep aborted")
	}
	return removed
}
