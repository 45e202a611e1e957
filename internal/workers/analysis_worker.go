package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/services"
	"github.com/danuarth/cvscout/internal/utils"
)

// AnalysisWorkerPool consumes analysis jobs from a redis stream so upload
// latency is decoupled from inference latency. Retryable failures are
// re-enqueued with multiplicative backoff up to MaxAttempts.
type AnalysisWorkerPool struct {
	Redis      *redis.Client
	Service    services.AnalysisService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
	MaxAttempts    int
}

func (p *AnalysisWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Service == nil {
		return errors.New("AnalysisWorkerPool missing dependency: Redis/Service must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultAnalysisStream
	}
	if p.Group == "" {
		p.Group = "analysis-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *AnalysisWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *AnalysisWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	job := services.AnalysisJob{
		CVUploadID: getStr("cv_upload_id"),
		FileURL:    getStr("file_url"),
		UserID:     getStr("user_id"),
		Role:       getStr("role"),
		CompanyID:  getStr("company_id"),
	}
	job.Attempts, _ = strconv.Atoi(getStr("attempts"))

	if job.CVUploadID == "" || job.FileURL == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"cv_upload_id": job.CVUploadID,
		"attempts":     job.Attempts,
	})

	ident := models.Identity{
		UserID:    job.UserID,
		Role:      models.UserRole(job.Role),
		CompanyID: job.CompanyID,
	}

	p.publishStatus(ctx, job.CVUploadID, "processing", "analysis started")

	result, err := p.Service.Analyze(ctx, ident, job.CVUploadID, job.FileURL)
	if err == nil {
		p.publishStatus(ctx, job.CVUploadID, "done", "analysis stored")
		log.WithField("structured", result.Structured()).Info("analysis completed")
		return
	}

	if utils.IsCode(err, utils.CodeConflict) {
		// another run holds the lock; that run will store the result
		log.Info("analysis already in progress, dropping job")
		return
	}

	if !retryable(err) {
		p.publishStatus(ctx, job.CVUploadID, "failed", err.Error())
		log.WithError(err).Warn("analysis failed terminally")
		return
	}

	job.Attempts++
	if job.Attempts >= p.MaxAttempts {
		p.publishStatus(ctx, job.CVUploadID, "failed", "max attempts exceeded")
		log.WithError(err).Error("analysis failed, giving up")
		return
	}

	backoff := time.Duration(job.Attempts) * 2 * time.Second
	log.WithError(err).WithField("backoff", backoff.String()).Warn("analysis failed, re-enqueueing")

	select {
	case <-ctx.Done():
		return
	case <-time.After(backoff):
	}

	q := &AnalysisQueue{Redis: p.Redis, Stream: p.Stream}
	if err := q.EnqueueAnalysis(ctx, job); err != nil {
		log.WithError(err).Error("failed to re-enqueue analysis job")
	}
}

func retryable(err error) bool {
	return utils.IsCode(err, utils.CodeUnavailable) ||
		utils.IsCode(err, utils.CodeTimeout) ||
		utils.IsCode(err, utils.CodeInternal)
}

func (p *AnalysisWorkerPool) publishStatus(ctx context.Context, cvUploadID, status, message string) {
	payload, _ := json.Marshal(map[string]any{
		"type":         "status",
		"cv_upload_id": cvUploadID,
		"status":       status,
		"message":      message,
	})
	_ = p.Redis.Publish(ctx, "cv:analysis:"+cvUploadID+":status", string(payload)).Err()
}
