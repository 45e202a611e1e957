package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/danuarth/cvscout/config"
	"github.com/danuarth/cvscout/internal/api/handlers"
	"github.com/danuarth/cvscout/internal/api/middleware"
	"github.com/danuarth/cvscout/internal/api/routes"
	"github.com/danuarth/cvscout/internal/cache"
	"github.com/danuarth/cvscout/internal/extract"
	"github.com/danuarth/cvscout/internal/logger"
	"github.com/danuarth/cvscout/internal/providers/llm"
	mongorepo "github.com/danuarth/cvscout/internal/repositories/mongo"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
	"github.com/danuarth/cvscout/internal/services"
	"github.com/danuarth/cvscout/internal/storage"
	"github.com/danuarth/cvscout/internal/workers"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	l := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		log.Fatal("GCS_BUCKET environment variable is not set")
	}
	store, err := storage.NewGCSStore(ctx, bucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		log.Fatal("GCP_PROJECT_ID environment variable is not set")
	}
	location := os.Getenv("GCP_LOCATION")
	if location == "" {
		location = "us-central1"
	}
	provider, err := llm.NewVertexGemini(ctx, projectID, location, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	defer provider.Close()

	// repositories
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	companyRepo := pgrepo.NewCompanyRepo(config.PostgresDB)
	uploadRepo := pgrepo.NewCVUploadRepo(config.PostgresDB)
	attemptRepo := mongorepo.NewAttemptRepo(config.MongoDatabase())

	rcache := cache.NewRedisCache(config.RedisClient)
	locker := cache.NewRedisLock(config.RedisClient)
	queue := workers.NewAnalysisQueue(config.RedisClient)

	// services
	authSvc := services.NewAuthService(config.PostgresDB, userRepo, companyRepo)
	companySvc := services.NewCompanyService(companyRepo, userRepo, os.Getenv("PUBLIC_BASE_URL"))
	uploadSvc := services.NewUploadService(uploadRepo, store, queue, l)
	analysisSvc := services.NewAnalysisService(
		uploadRepo,
		attemptRepo,
		extract.NewHTTPFetcher(http.DefaultClient),
		extract.NewPDFExtractor(),
		provider,
		locker,
		l,
	)
	querySvc := services.NewCVQueryService(uploadRepo)

	// background workers
	pool := &workers.AnalysisWorkerPool{
		Redis:   config.RedisClient,
		Service: analysisSvc,
		Logger:  l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("analysis worker error: %v", err)
	}

	sweeper := &workers.OrphanSweeper{
		Store:   store,
		Uploads: uploadRepo,
		Logger:  l,
	}
	sweeper.Start(ctx)

	maxBytes := int64(0)
	if mb, err := strconv.Atoi(os.Getenv("CV_MAX_UPLOAD_MB")); err == nil && mb > 0 {
		maxBytes = int64(mb) << 20
	}

	resolver := &middleware.RoleResolver{
		Companies: companyRepo,
		Cache:     rcache,
		Logger:    l,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Company:   handlers.NewCompanyHandler(companySvc),
		CV:        handlers.NewCVHandler(uploadSvc, analysisSvc, maxBytes),
		Dashboard: handlers.NewDashboardHandler(querySvc, companySvc),
		Profile:   handlers.NewProfileHandler(querySvc),
		Resolver:  resolver,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
