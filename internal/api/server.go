// Package api provides the HTTP status API for the resolution engine.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/driftworks/slipway/internal/api/handlers"
	"github.com/driftworks/slipway/internal/api/health"
	"github.com/driftworks/slipway/internal/api/middleware"
	"github.com/driftworks/slipway/internal/auth"
	"github.com/driftworks/slipway/internal/store"
	"github.com/driftworks/slipway/pkg/config"
)

// Version is the current version of the API server.
// This should be set at build time using ldflags.
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	store         store.Store
	auth          *auth.Service
	config        *config.Config
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server with the given dependencies.
func NewServer(cfg *config.Config, st store.Store, authSvc *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  st,
		auth:   authSvc,
		config: cfg,
		logger: logger,
	}

	s.healthChecker = health.NewChecker(st, Version)
	s.setupRouter()
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check endpoint (no auth required)
	r.Get("/healthz", s.healthChecker.Handler())

	// Authenticated API routes
	buildHandler := handlers.NewBuildHandler(s.store, s.logger)
	deployHandler := handlers.NewDeployHandler(s.store, s.logger)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.auth, s.logger))

		r.Get("/builds/{buildID}", buildHandler.Get)
		r.Post("/builds/{buildID}/events", buildHandler.Event)
		r.Get("/projects/{projectID}/builds", buildHandler.ListByProject)
		r.Get("/deploys/{deployID}", deployHandler.Get)
		r.Get("/deploys/{deployID}/builds", deployHandler.Builds)
	})

	s.router = r
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving HTTP: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}
