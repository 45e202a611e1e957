package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danuarth/cvscout/internal/models"
)

type AttemptRepository interface {
	Insert(ctx context.Context, a *models.AnalysisAttempt) error
	ListByUpload(ctx context.Context, cvUploadID string, limit int64) ([]models.AnalysisAttempt, error)
}

type attemptRepo struct {
	col *mongo.Collection
}

func NewAttemptRepo(db *mongo.Database) AttemptRepository {
	return &attemptRepo{col: db.Collection("analysis_attempts")}
}

// attemptTTL bounds how long raw model output is retained.
const attemptTTL = 30 * 24 * time.Hour

func (r *attemptRepo) Insert(ctx context.Context, a *models.AnalysisAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = a.CreatedAt.Add(attemptTTL)
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *attemptRepo) ListByUpload(ctx context.Context, cvUploadID string, limit int64) ([]models.AnalysisAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"cv_upload_id": cvUploadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AnalysisAttempt
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
