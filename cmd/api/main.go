// Package main is the entrypoint for the task tracker API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/bootstrap"
	"github.com/tasktrack/tasktrack/internal/cache"
	"github.com/tasktrack/tasktrack/internal/config"
	"github.com/tasktrack/tasktrack/internal/handler"
	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/repository"
	"github.com/tasktrack/tasktrack/internal/server"
	"github.com/tasktrack/tasktrack/internal/service"
)

func main() {
	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to create token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.BootstrapDatabase {
		name, err := bootstrap.DatabaseName(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to read database name",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		if err := bootstrap.EnsureDatabase(ctx, cfg.Admin(), name, logger); err != nil {
			logger.Error("failed to ensure database",
				slog.String("error", sanitizeError(err, cfg.Admin().DSN())),
				slog.String("database", name),
			)
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, repository.Options{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		RequireTLS:  cfg.DatabaseTLS,
	})
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := bootstrap.Schema(ctx, repo.Pool(), logger); err != nil {
		logger.Error("failed to bootstrap schema", slog.String("error", err.Error()))
		repo.Close()
		os.Exit(1)
	}

	var (
		revocations  revocationStore
		cacheChecker handler.HealthChecker
		cacheClient  *cache.Cache
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		revocations, cacheChecker = cacheClient, cacheClient
		logger.Info("connected to Redis")
	} else {
		revocations = cache.NewMemoryRevocations()
		logger.Warn("REDIS_URL not set, token revocations are kept in memory")
	}

	recorder := metrics.NewInMemory()
	authService := service.NewAuthService(repo, auth.NewHasher(auth.DefaultParams), tokens, revocations, recorder).WithLogger(logger)
	taskService := service.NewTaskService(repo, recorder)

	r := setupRouter(routerDeps{
		cfg:         cfg,
		logger:      logger,
		metrics:     recorder,
		tokens:      tokens,
		revocations: revocations,
		auth:        handler.NewAuthHandler(authService, logger),
		tasks:       handler.NewTaskHandler(taskService, logger),
		health:      handler.NewHealthHandler(repo, cacheChecker),
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"revocation_store", revocationBackend(cacheClient),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func revocationBackend(c *cache.Cache) string {
	if c == nil {
		return "memory"
	}
	return "redis"
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
