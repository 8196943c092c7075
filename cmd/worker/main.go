package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/tour_ledger/internal/cache"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/SscSPs/tour_ledger/internal/edgefn"
	"github.com/SscSPs/tour_ledger/internal/jobs"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/SscSPs/tour_ledger/internal/observability"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/SscSPs/tour_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/tour_ledger/internal/storage"
	"github.com/SscSPs/tour_ledger/pkg/database"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// The worker sends queued booking e-mails and runs the recurring expense
// generator on RECURRING_EXPENSES_CRON. Migrations are left to the API server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "worker"))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR must be set for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: int32(cfg.WorkerConcurrency) + 2})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer redisClient.Close()
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

	metrics := observability.NewMetrics()
	jobMetrics := jobs.NewMetrics(metrics.Registerer())

	client := jobs.NewClient(redisOpts)
	defer client.Close()

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Dependencies{
		Cache:    cache.NewQueryCache(redisClient, cfg.CacheTTL, cache.WithRecorder(metrics)),
		Attempts: cache.NewAttemptTracker(redisClient, cfg.Finance.AttemptMarkerTTL),
		Storage:  storage.Unavailable{},
		Jobs:     client,
	})

	emailJob := &jobs.BookingEmailJob{Sender: edgefn.NewClient(cfg.EdgeFunction), Logger: logger, Metrics: jobMetrics}
	recurringJob := &jobs.RecurringExpensesJob{Finance: container.Finance, Logger: logger, Metrics: jobMetrics}

	workerCfg := jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBookingRequestEmail, Handler: emailJob.Handle},
			{Type: jobs.TaskRecurringExpenses, Handler: recurringJob.Handle},
		},
	}
	if cfg.RecurringExpensesCron != "" {
		// Open range: every confirmation is considered, the unique index keeps it idempotent.
		task, err := jobs.NewRecurringExpensesTask(domain.DateRange{})
		if err != nil {
			logger.Error("Failed to build recurring expenses task", slog.String("error", err.Error()))
			os.Exit(1)
		}
		workerCfg.Cron = append(workerCfg.Cron, jobs.CronRegistration{
			Spec:    cfg.RecurringExpensesCron,
			Task:    task,
			Options: []asynq.Option{asynq.Queue(jobs.QueueDefault), asynq.Unique(30 * time.Minute)},
		})
	}

	worker, err := jobs.NewWorker(workerCfg)
	if err != nil {
		logger.Error("Failed to initialize worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Job metrics are scraped from the worker itself.
	metricsSrv := &http.Server{Addr: ":" + cfg.Port, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	runCtx := middleware.WithLogger(ctx, logger)
	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker shut down")
}
