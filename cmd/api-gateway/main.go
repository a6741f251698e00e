package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rabiauynk/exam-orchestrator-planner/api/swagger"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examscheduler"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/handler"
	customMiddleware "github.com/rabiauynk/exam-orchestrator-planner/internal/middleware"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/repository"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/service"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/cache"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/config"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/database"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/export"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/jobs"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/logger"
	gocors "github.com/rabiauynk/exam-orchestrator-planner/pkg/middleware/cors"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/middleware/requestid"
	"github.com/rabiauynk/exam-orchestrator-planner/pkg/storage"
)

// main wires the exam schedule generation engine behind a thin gin HTTP
// surface: trigger a run, poll its status, and export a finished run's
// report. Excel ingestion, relational persistence migrations and auth are
// external collaborators and have no routes here.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logr.Sync() }()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, exam window caching and run-locking disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.ProposalTTL, logr, redisClient != nil)
	windowRepo := repository.NewExamWindowRepository(db)
	cachedWindowRepo := repository.NewCachedExamWindowRepository(windowRepo, cacheSvc, cfg.Scheduler.ProposalTTL, logr)
	roomRepo := repository.NewExamRoomRepository(db)
	requestRepo := repository.NewExamRequestRepository(db)
	assignmentRepo := repository.NewExamAssignmentRepository(db)

	examMetrics := service.NewExamSchedulerMetrics(metricsSvc.Registry())
	runner := examscheduler.NewScheduleRunner(cachedWindowRepo, roomRepo, requestRepo, assignmentRepo, logr, examMetrics)
	examLock := service.NewExamSchedulerLock(redisClient)

	var reportExport *service.ExamReportExportService
	if cfg.Reports.Enabled {
		exportStore, storageErr := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if storageErr != nil {
			logr.Fatal("prepare exam report export storage", zap.Error(storageErr))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportExport = service.NewExamReportExportService(export.NewCSVExporter(), export.NewPDFExporter(), exportStore, signer, service.ExamReportExportConfig{
			FileTTL:         cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		}, logr)
	}

	examScheduleSvc := service.NewExamScheduleService(runner, examLock, assignmentRepo, reportExport, cfg.Scheduler.ProposalTTL, logr)

	queueCtx, cancelQueue := context.WithCancel(context.Background())
	examQueueCfg := jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		BufferSize: cfg.Reports.WorkerConcurrency * 4,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	}
	examQueue := jobs.NewQueue("exam-schedule", service.ExamScheduleJobHandler(examScheduleSvc), examQueueCfg)
	examQueue.Start(queueCtx)
	if reportExport != nil {
		reportExport.StartCleanup(queueCtx)
	}
	defer func() {
		cancelQueue()
		examQueue.Stop()
	}()

	examHandler := handler.NewExamScheduleHandler(examScheduleSvc, examQueue, validate)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(logr))
	router.Use(customMiddleware.Metrics(metricsSvc))
	router.Use(gocors.New(cfg.CORS.AllowedOrigins))

	router.GET("/health", metricsHandler.Health)
	router.GET("/ready", metricsHandler.Health)
	router.GET("/metrics", metricsHandler.Prometheus)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(cfg.APIPrefix)
	{
		examGroup := api.Group("/exam-schedule")
		examGroup.POST("/generate", examHandler.Generate)
		examGroup.GET("/runs/:id", examHandler.Status)
		examGroup.GET("/runs/:id/export", examHandler.Export)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(normalizedPort(cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Info("starting api-gateway", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func normalizedPort(p int) int {
	if p <= 0 {
		return 8080
	}
	return p
}
