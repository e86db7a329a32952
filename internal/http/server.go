// Package http exposes the variance reporting API under /api/v1.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/middleware/ratelimit"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/middleware/trace"
)

// NewRouter wires the middleware stack and all API routes.
func NewRouter(h *Handler, cfg *config.Config, logger *log.Logger, limiter *ratelimit.Limiter) *chi.Mux {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	r := chi.NewRouter()
	r.Use(trace.NewMiddleware(logger).Handler)
	r.Use(middleware.Recoverer)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/employees", h.Employees)

		r.Route("/reports", func(r chi.Router) {
			r.Post("/variance", h.VarianceReport)
			r.Get("/variance/trends", h.VarianceTrends)
			r.Get("/variance/by-department", h.VarianceByDepartment)
		})

		r.Get("/batch/dashboard", h.Dashboard)
		r.Post("/sync/sheets", h.SyncSheets)

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", h.ListBudgets)
			r.Post("/", h.UpsertBudget)
		})
	})

	return r
}

// Server wraps the standard http.Server with sensible timeouts and graceful
// shutdown.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer creates a server listening on the configured port.
func NewServer(cfg *config.Config, handler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	return s.httpServer.Shutdown(ctx)
}
