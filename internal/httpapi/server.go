// Package httpapi serves the questionnaire and scorer over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"neopir/internal/audit"
	"neopir/internal/inventory"
	"neopir/internal/logging"
)

const (
	EnvAddr     = "NEOPIR_ADDR"
	DefaultAddr = "127.0.0.1:8080"
)

// Config wires a Server.
type Config struct {
	Inventory *inventory.Inventory
	Logger    *slog.Logger
	Audit     *audit.Logger
	Registry  *prometheus.Registry
	Now       func() time.Time
}

// Server holds the API dependencies.
type Server struct {
	inv      *inventory.Inventory
	logger   *slog.Logger
	audit    *audit.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	now      func() time.Time
}

// NewServer validates cfg and registers metrics.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Inventory == nil {
		return nil, fmt.Errorf("inventory is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	metrics, err := NewMetrics(cfg.Registry)
	if err != nil {
		return nil, err
	}
	return &Server{
		inv:      cfg.Inventory,
		logger:   cfg.Logger,
		audit:    cfg.Audit,
		registry: cfg.Registry,
		metrics:  metrics,
		now:      cfg.Now,
	}, nil
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/items", s.listItems).Methods("GET")
	api.HandleFunc("/items/{id}", s.getItem).Methods("GET")
	api.HandleFunc("/score", s.score).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("api shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logAudit(eventType string, payload map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent("api", eventType, payload); err != nil {
		s.logger.Warn("audit log failed", "event", eventType, "error", err)
	}
}
