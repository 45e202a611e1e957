package workers

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/danuarth/cvscout/internal/services"
)

const DefaultAnalysisStream = "cv:analysis"

// AnalysisQueue publishes analysis jobs to the redis stream the worker pool
// consumes. It implements services.Enqueuer.
type AnalysisQueue struct {
	Redis  *redis.Client
	Stream string
}

func NewAnalysisQueue(rdb *redis.Client) *AnalysisQueue {
	return &AnalysisQueue{Redis: rdb, Stream: DefaultAnalysisStream}
}

func (q *AnalysisQueue) EnqueueAnalysis(ctx context.Context, job services.AnalysisJob) error {
	stream := q.Stream
	if stream == "" {
		stream = DefaultAnalysisStream
	}
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"cv_upload_id": job.CVUploadID,
			"file_url":     job.FileURL,
			"user_id":      job.UserID,
			"role":         job.Role,
			"company_id":   job.CompanyID,
			"attempts":     strconv.Itoa(job.Attempts),
		},
	}).Err()
}
