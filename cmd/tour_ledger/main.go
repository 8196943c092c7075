package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/tour_ledger/internal/cache"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/SscSPs/tour_ledger/internal/edgefn"
	"github.com/SscSPs/tour_ledger/internal/handlers"
	"github.com/SscSPs/tour_ledger/internal/jobs"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/SscSPs/tour_ledger/internal/observability"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/SscSPs/tour_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/tour_ledger/internal/storage"
	"github.com/SscSPs/tour_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

//go:generate swag init -g cmd/tour_ledger/main.go -o cmd/docs -d ../../

// @title Tour Ledger API
// @version 1.0
// @description Back office for tour confirmations, payments and hotel invoices.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Import key issued from /import-tokens.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	poolOpts := database.PoolOptions{ConnectTimeout: 10 * time.Second}
	if cfg.EnableDBCheck {
		poolOpts.HealthCheckPeriod = 30 * time.Second
	}
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache and attempt markers both fall back when Redis misbehaves.
			logger.Warn("Redis ping failed, continuing", slog.String("error", err.Error()))
		}
	} else {
		logger.Warn("REDIS_ADDR not set; query cache disabled and jobs run inline")
	}

	var objectStorage ports.ObjectStorage = storage.Unavailable{}
	if cfg.Storage.Enabled() {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(logger),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			logger.Error("Failed to initialize object storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			logger.Error("Failed to ensure attachment bucket", slog.String("bucket", s3Storage.Bucket()), slog.String("error", err.Error()))
			os.Exit(1)
		}
		objectStorage = s3Storage
	}

	jobMetrics := jobs.NewMetrics(metrics.Registerer())
	var (
		enqueuer ports.JobEnqueuer
		inline   *jobs.Inline
	)
	if redisClient != nil {
		client := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		enqueuer = client
	} else {
		inline = &jobs.Inline{
			Emails: &jobs.BookingEmailJob{Sender: edgefn.NewClient(cfg.EdgeFunction), Logger: logger, Metrics: jobMetrics},
		}
		enqueuer = inline
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, services.Dependencies{
		Cache:    cache.NewQueryCache(redisClient, cfg.CacheTTL, cache.WithRecorder(metrics)),
		Attempts: cache.NewAttemptTracker(redisClient, cfg.Finance.AttemptMarkerTTL),
		Storage:  objectStorage,
		Jobs:     enqueuer,
	})
	if inline != nil {
		// The generator needs the finance service, which needs the enqueuer.
		inline.Recurring = &jobs.RecurringExpensesJob{Finance: container.Finance, Logger: logger, Metrics: jobMetrics}
	}

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		metrics.GinMiddleware(),
	)
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-View-As", "X-Request-ID", "x-api-key")
		corsCfg.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
		r.Use(cors.New(corsCfg))
	}

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, metrics, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
