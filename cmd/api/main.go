// @title           School Portal API
// @version         1.0
// @description     학교 홈페이지 콘텐츠(공지사항, 갤러리, 로드맵, 입시자료)와 첨부파일, 댓글 API

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "school-portal-api/docs" // Swagger docs import

	"school-portal-api/internal/cache"
	"school-portal-api/internal/client"
	"school-portal-api/internal/config"
	"school-portal-api/internal/database"
	"school-portal-api/internal/job"
	"school-portal-api/internal/metrics"
	"school-portal-api/internal/repository"
	"school-portal-api/internal/router"
)

const (
	dbRetryInterval         = 5 * time.Second
	dbStatsInterval         = 15 * time.Second
	businessMetricsInterval = 60 * time.Second
	migrationRetries        = 3
	migrationBackoff        = time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting School Portal API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	db := connectDatabase(cfg, logger, quit)
	if db == nil {
		logger.Info("Interrupted before the database became available")
		return
	}

	// Run auto migration
	if err := database.SafeAutoMigrateWithRetry(context.Background(), db, logger, migrationRetries, migrationBackoff); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, dbStatsInterval)
	businessCollector := metrics.NewBusinessMetricsCollector(db, m, logger, businessMetricsInterval)
	businessCollector.Start()

	// Redis list cache (optional)
	redisClient, err := database.InitRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, list cache disabled", zap.Error(err))
	}
	var listCache cache.ListCache
	if redisClient != nil {
		listCache = cache.NewRedisListCache(redisClient, cfg.Redis.ListTTL, logger)
	}

	store := initObjectStore(cfg, logger)

	// Comment moderation notifications (optional)
	notifier := client.NewNoOpNotificationClient()
	if cfg.Notify.BaseURL != "" {
		notifier = client.NewNotificationClient(cfg.Notify.BaseURL, cfg.Notify.APIKey, cfg.Notify.Timeout, logger, m)
		logger.Info("Notification client initialized", zap.String("base_url", cfg.Notify.BaseURL))
	}

	// Maintenance jobs
	scheduler := job.NewScheduler(logger, m, cfg.Jobs.RunTimeout)
	if err := scheduler.Register(cfg.Jobs.BackfillSchedule,
		job.NewGalleryBackfillJob(repository.NewContentRepository(db), listCache, logger)); err != nil {
		logger.Fatal("Failed to schedule gallery backfill", zap.Error(err))
	}
	if err := scheduler.Register(cfg.Jobs.OrphanSweepSchedule,
		job.NewOrphanSweepJob(repository.NewAttachmentRepository(db), store, logger)); err != nil {
		logger.Fatal("Failed to schedule orphan sweep", zap.Error(err))
	}
	scheduler.Start()

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTSecret:      cfg.JWT.Secret,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Content:        cfg.Content,
		Metrics:        m,
		Store:          store,
		ListCache:      listCache,
		Notifier:       notifier,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("School Portal API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		logger.Warn("Maintenance jobs still running at shutdown")
	}
	businessCollector.Stop()
	close(stopDBStats)

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// connectDatabase returns a live connection, retrying in the background until one is made.
// It returns nil if a shutdown signal arrives first.
func connectDatabase(cfg *config.Config, logger *zap.Logger, quit <-chan os.Signal) *gorm.DB {
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,

		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}

	db, err := database.New(dbConfig, logger)
	if err == nil {
		logger.Info("Database connected successfully")
		return db
	}

	logger.Warn("Failed to connect to database on startup, will retry in background", zap.Error(err))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connected := make(chan *gorm.DB, 1)
	database.NewAsync(ctx, dbConfig, dbRetryInterval, logger, func(db *gorm.DB) {
		connected <- db
	})

	select {
	case db := <-connected:
		return db
	case <-quit:
		return nil
	}
}

// initObjectStore returns the S3 store when configured, otherwise an in-memory store for local runs
func initObjectStore(cfg *config.Config, logger *zap.Logger) client.ObjectStore {
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Client, err := client.NewS3Client(context.Background(), &cfg.S3)
		if err == nil {
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
			return s3Client
		}
		logger.Warn("Failed to initialize S3 client, falling back to in-memory store", zap.Error(err))
	} else {
		logger.Warn("S3 configuration incomplete, attachments are kept in memory")
	}
	return client.NewMemoryStore(fmt.Sprintf("http://localhost:%s/files", cfg.Server.Port))
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
