package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasktrack/tasktrack/internal/config"
	"github.com/tasktrack/tasktrack/internal/handler"
	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/middleware"
)

// revocationStore is satisfied by both the Redis cache and the in-memory store.
type revocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type routerDeps struct {
	cfg         *config.Config
	logger      *slog.Logger
	metrics     *metrics.InMemoryRecorder
	tokens      middleware.TokenVerifier
	revocations middleware.RevocationChecker
	auth        *handler.AuthHandler
	tasks       *handler.TaskHandler
	health      *handler.HealthHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()
	h := handler.New()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.CORSAllowedOrigins

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger, d.metrics))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/", h.Hello)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", handler.NewMetricsHandler(d.metrics).Metrics)

	gate := middleware.Auth(middleware.AuthConfig{
		Logger:      d.logger,
		Verifier:    d.tokens,
		Revocations: d.revocations,
		Metrics:     d.metrics,
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", d.auth.Register)
		r.Post("/login", d.auth.Login)
		r.With(gate).Post("/logout", d.auth.Logout)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(gate)
		r.Get("/", d.tasks.List)
		r.Post("/", d.tasks.Create)
		r.Put("/{id}", d.tasks.Update)
		r.Delete("/{id}", d.tasks.Delete)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
