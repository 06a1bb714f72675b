package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imobix/imobix/internal/app"
	jobmetrics "github.com/imobix/imobix/internal/jobs"
	"github.com/imobix/imobix/internal/platform/cache"
	"github.com/imobix/imobix/internal/platform/db"
	"github.com/imobix/imobix/internal/templates"
	"github.com/imobix/imobix/internal/uploads"
	"github.com/imobix/imobix/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.Pool())
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)
	templatesService := templates.NewService(
		templates.NewRepository(pool),
		templates.NewCache(redisClient, cfg.TemplatesCacheTTL),
		logger,
	)
	uploadJob := jobs.NewUploadRecordJob(uploads.NewRepository(pool), logger, metrics)
	warmupJob := jobs.NewTemplatesWarmupJob(templatesService, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cfg.Redis().Asynq(),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskUploadRecord, Handler: uploadJob.Handle},
			{Type: jobs.TaskTemplatesWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/10 * * * *", Task: jobs.NewTemplatesWarmupTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
