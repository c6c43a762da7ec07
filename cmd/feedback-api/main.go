package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/feedback-api/api/swagger"
	"github.com/noah-isme/feedback-api/internal/handler"
	"github.com/noah-isme/feedback-api/internal/middleware"
	"github.com/noah-isme/feedback-api/internal/models"
	"github.com/noah-isme/feedback-api/internal/repository"
	"github.com/noah-isme/feedback-api/internal/service"
	"github.com/noah-isme/feedback-api/pkg/cache"
	"github.com/noah-isme/feedback-api/pkg/config"
	"github.com/noah-isme/feedback-api/pkg/database"
	"github.com/noah-isme/feedback-api/pkg/jobs"
	"github.com/noah-isme/feedback-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/feedback-api/pkg/middleware/requestid"
	"github.com/noah-isme/feedback-api/pkg/storage"
)

// @title Faculty Feedback API
// @version 1.0.0
// @description Anonymous faculty feedback collection and statistics
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	feedbackRepo := repository.NewFeedbackRepository(db, database.RetryPolicy{
		Attempts: cfg.Feedback.WriteRetries,
		Delay:    cfg.Feedback.WriteRetryDelay,
	}, logr)
	batchRepo := repository.NewBatchRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	attemptRepo := repository.NewAttemptRepository(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})
	statsSvc := service.NewStatisticsService(feedbackRepo, facultyRepo, batchRepo, cacheSvc, metricsSvc, logr, cfg.Stats.CacheTTL)
	checker := service.NewSubmissionValidator(batchRepo, facultyRepo, cfg.Feedback.EnforceWindow, time.Now)
	feedbackSvc := service.NewFeedbackService(
		feedbackRepo,
		checker,
		attemptRepo,
		service.NewSourceTagger(cfg.Feedback.SourceTagSecret),
		statsSvc,
		metricsSvc,
		validate,
		logr,
		service.FeedbackConfig{
			CommentMaxLength: cfg.Feedback.CommentMaxLength,
			RateLimit:        cfg.Feedback.RateLimit,
			RateLimitWindow:  cfg.Feedback.RateLimitWindow,
		},
	)
	batchSvc := service.NewBatchService(batchRepo, facultyRepo, statsSvc, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, statsSvc, validate, logr)

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare report storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(statsSvc, facultyRepo, batchRepo, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr)

	worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		OnGiveUp:   worker.GiveUp,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	if cfg.Reports.Enabled {
		queue.Start(ctx)
		defer queue.Stop()
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsSvc, cfg.APIPrefix))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeHandlers{
		feedback: handler.NewFeedbackHandler(feedbackSvc, batchSvc),
		stats:    handler.NewStatsHandler(statsSvc),
		reports:  handler.NewReportHandler(reportSvc, exportSvc, statsSvc),
		batches:  handler.NewBatchHandler(batchSvc),
		faculty:  handler.NewFacultyHandler(facultySvc),
	}, authSvc, cfg.Reports.Enabled)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

type routeHandlers struct {
	feedback *handler.FeedbackHandler
	stats    *handler.StatsHandler
	reports  *handler.ReportHandler
	batches  *handler.BatchHandler
	faculty  *handler.FacultyHandler
}

func registerRoutes(api *gin.RouterGroup, h routeHandlers, auth middleware.TokenValidator, reportJobs bool) {
	api.POST("/feedback/submit", h.feedback.Submit)
	api.GET("/feedback/batches/:id/count", h.feedback.BatchCount)
	api.GET("/batches/:id/public", h.feedback.PublicBatch)
	api.GET("/export/:token", h.reports.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin, models.RoleHoD), middleware.WithResponseMeta())

	stats := secured.Group("/stats")
	stats.GET("/faculty/:id", h.stats.Faculty)
	stats.GET("/faculty/:id/comparison", h.stats.Comparison)
	stats.GET("/batches/:id", h.stats.Batch)
	stats.GET("/departments", h.stats.Department)
	stats.GET("/analytics", h.stats.Analytics)
	stats.GET("/overview", h.stats.Overview)

	reports := secured.Group("/reports")
	reports.GET("/faculty/:id", h.reports.FacultyReport)
	reports.GET("/faculty/:id/data", h.reports.FacultyData)
	reports.GET("/batches/:id", h.reports.BatchReport)
	if reportJobs {
		reports.POST("", h.reports.CreateJob)
		reports.GET("/:id", h.reports.JobStatus)
	}

	batches := secured.Group("/batches")
	batches.GET("", h.batches.List)
	batches.POST("", h.batches.Create)
	batches.GET("/:id", h.batches.Get)
	batches.DELETE("/:id", h.batches.Delete)

	faculty := secured.Group("/faculty")
	faculty.GET("", h.faculty.List)
	faculty.POST("", h.faculty.Create)
	faculty.GET("/:id", h.faculty.Get)
	faculty.DELETE("/:id", h.faculty.Delete)
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
