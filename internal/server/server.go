// Package server exposes the prayer pipeline and history over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
	"github.com/edgard/aurelia/internal/logger"
	"github.com/edgard/aurelia/internal/prayer"
)

// OwnerHeader identifies the history a request reads or writes.
const OwnerHeader = "X-Owner-ID"

// Generate endpoint paths. The second keeps clients of the original
// serverless deployment working.
const (
	GeneratePath       = "/api/generate-prayer"
	LegacyGeneratePath = "/.netlify/functions/generate-prayer"
)

// Generator produces prayers.
type Generator interface {
	Generate(ctx context.Context, p composer.Profile) (*prayer.Result, error)
}

// Server is the HTTP API.
type Server struct {
	cfg         config.ServerConfig
	generator   Generator
	store       database.Store
	historySize int
	log         *slog.Logger
	handler     http.Handler
}

// New builds the server and its routes. store may be nil, which disables
// history endpoints and saving.
func New(cfg config.ServerConfig, generator Generator, store database.Store, historySize int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultServerMaxBodyBytes
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = config.DefaultServerAllowedOrigin
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.DefaultServerShutdownTimeout
	}
	s := &Server{
		cfg:         cfg,
		generator:   generator,
		store:       store,
		historySize: historySize,
		log:         log.With("component", "http_server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(GeneratePath, s.handleGenerate)
	mux.HandleFunc(LegacyGeneratePath, s.handleGenerate)
	mux.HandleFunc("GET /api/prayers", s.handleListPrayers)
	mux.HandleFunc("GET /api/prayers/{id}", s.handleGetPrayer)
	mux.HandleFunc("DELETE /api/prayers/{id}", s.handleDeletePrayer)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = logger.HTTPMiddleware(s.log, s.corsMiddleware(mux))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods := "GET, DELETE, OPTIONS"
		if r.URL.Path == GeneratePath || r.URL.Path == LegacyGeneratePath {
			methods = "POST, OPTIONS"
		}
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+OwnerHeader)
		w.Header().Set("Access-Control-Allow-Methods", methods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.log.WarnContext(r.Context(), "Health check failed", "error", err)
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
