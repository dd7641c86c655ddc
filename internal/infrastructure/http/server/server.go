// Package server provides the JSON API HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/savoria/engine/internal/infrastructure/config"
	"github.com/savoria/engine/internal/infrastructure/http/handlers"
	"github.com/savoria/engine/internal/infrastructure/http/middleware"
	"github.com/savoria/engine/internal/infrastructure/monitoring"
	"github.com/savoria/engine/internal/ports/inbound"
)

// APIServer serves the engine's JSON API.
type APIServer struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	engine  inbound.RecommenderService
	metrics *monitoring.MetricsCollector
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	engine inbound.RecommenderService,
	metrics *monitoring.MetricsCollector,
) (*APIServer, error) {
	s := &APIServer{
		config:  cfg,
		logger:  log,
		engine:  engine,
		metrics: metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	if cfg.Server.EnableHTTP2 {
		if err := http2.ConfigureServer(s.server, &http2.Server{}); err != nil {
			return nil, fmt.Errorf("configuring http2: %w", err)
		}
	}

	return s, nil
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger,
		s.config.Monitoring.HealthCheckPath,
		s.config.Monitoring.MetricsPath,
	))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))

	if s.config.RateLimit.Enable {
		limiter := rate.NewLimiter(
			rate.Limit(s.config.RateLimit.RequestsPerSec),
			s.config.RateLimit.BurstSize,
		)
		r.Use(middleware.RateLimit(limiter))
	}
	if s.config.Monitoring.EnableMetrics {
		r.Use(middleware.Metrics(s.metrics))
	}

	h := handlers.NewEngineHandlers(s.engine, s.logger)

	r.Get(s.config.Monitoring.HealthCheckPath, h.HealthCheck)
	if s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/train", h.Train)
		r.Post("/recommend", h.Recommend)
		r.Post("/rate", h.Rate)
		r.Get("/info", h.Info)
		r.Get("/cuisines", h.Cuisines)
		r.Get("/categories", h.Categories)
		r.Get("/users/{id}/ratings", h.UserRatings)
	})

	return r
}

// Start starts the HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.Bool("http2", s.config.Server.EnableHTTP2),
	)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router, used by tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}
