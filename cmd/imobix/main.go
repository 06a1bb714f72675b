package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/imobix/imobix/cmd/imobix/cli"
	"github.com/imobix/imobix/internal/app"
	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/observability"
	"github.com/imobix/imobix/internal/platform/blob"
	"github.com/imobix/imobix/internal/platform/cache"
	"github.com/imobix/imobix/internal/platform/db"
	"github.com/imobix/imobix/internal/rbac"
	"github.com/imobix/imobix/internal/shared"
	"github.com/imobix/imobix/internal/templates"
	"github.com/imobix/imobix/internal/uploads"
	"github.com/imobix/imobix/internal/users"
	"github.com/imobix/imobix/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		jobsCLI := cli.NewJobsCLI(cfg.Redis().Asynq())
		code := jobsCLI.Run(ctx, os.Args[2:], os.Stdout, os.Stderr)
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
		os.Exit(code)
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.Pool())
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

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

	sessionManager := shared.NewSessionManager(redisClient, "imobix_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL})
	if err != nil {
		logger.Error("init token issuer", slog.Any("error", err))
		os.Exit(1)
	}
	revocations := auth.NewRedisRevocations(redisClient)

	authRepo := auth.NewRepository(dbpool)
	guard := auth.NewGuard(logger,
		auth.BearerProvider{Tokens: tokens, Revocations: revocations, Users: authRepo},
		auth.CookieProvider{Users: authRepo},
	)
	authHandler := auth.NewHandler(auth.HandlerDeps{
		Logger:      logger,
		Service:     auth.NewService(authRepo),
		Sessions:    sessionManager,
		CSRF:        csrfManager,
		Tokens:      tokens,
		Revocations: revocations,
		Guard:       guard,
	})

	metrics := observability.NewMetrics()

	templatesService := templates.NewService(
		templates.NewRepository(dbpool),
		templates.NewCache(redisClient, cfg.TemplatesCacheTTL),
		logger,
	)

	store, err := blob.NewLocalStore(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		logger.Error("init blob store", slog.Any("error", err))
		os.Exit(1)
	}
	redisOpts := cfg.Redis().Asynq()
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	uploadsService := uploads.NewService(uploads.ServiceDeps{
		Store:    store,
		Recorder: jobClient,
		Observer: metrics,
		Logger:   logger,
	})

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Guard:            guard,
		RBACMiddleware:   rbac.Middleware{Logger: logger},
		AuthHandler:      authHandler,
		TemplatesHandler: templates.NewHandler(logger, templatesService),
		UploadsHandler:   uploads.NewHandler(logger, uploadsService, cfg.UploadMaxBytes),
		UsersHandler:     users.NewHandler(logger, users.NewService(users.NewRepository(dbpool), logger)),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Files:            store.Handler("/files"),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
