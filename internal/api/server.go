package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"trackarr/internal/api/handlers"
	"trackarr/internal/api/middleware"
	"trackarr/internal/config"
	"trackarr/internal/dialogue"
	"trackarr/internal/store"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	store  store.Store
	engine *dialogue.Engine
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, st store.Store, engine *dialogue.Engine, logger *logrus.Logger) *Server {
	s := &Server{
		store:  st,
		engine: engine,
		logger: logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux, cfg)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(middleware.Metrics(mux), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, cfg *config.Config) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.store, s.logger)
	mux.Handle("GET /status", statusHandler)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Dialogue events
	eventsHandler := handlers.NewEventsHandler(s.engine, s.logger)
	mux.Handle("POST /api/users/{id}/events", eventsHandler)

	// Collection views
	showsHandler := handlers.NewShowsHandler(s.store, s.logger)
	mux.HandleFunc("GET /api/users/{id}/shows", showsHandler.List)
	mux.HandleFunc("GET /api/users/{id}/shows/search", showsHandler.Search)

	// Aggregates
	statsHandler := handlers.NewStatsHandler(s.store, s.logger)
	mux.Handle("GET /api/users/{id}/stats", statsHandler)

	remindersHandler := handlers.NewRemindersHandler(s.store, cfg.ReminderWindowDays, s.logger)
	mux.Handle("GET /api/users/{id}/reminders", remindersHandler)

	// CSV export
	exportHandler := handlers.NewExportHandler(s.store, s.logger)
	mux.Handle("GET /api/users/{id}/export", exportHandler)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
