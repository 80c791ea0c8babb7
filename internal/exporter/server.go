package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/neox5/esbox/internal/config"
)

// defaultPath is served next to the configured path.
const defaultPath = "/metrics"

const shutdownTimeout = 5 * time.Second

// Server provides the HTTP server for the exporter.
type Server struct {
	addr   string
	paths  []string
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the HTTP server routing the configured paths to exp.
func NewServer(cfg *config.Config, exp *Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	handler := loggingMiddleware(logger, exp)

	paths := []string{cfg.Server.Path}
	mux.Handle(cfg.Server.Path, handler)

	internal := exp.InternalHandler()
	internalPath := cfg.Settings.InternalMetrics.Path
	if internal != nil {
		mux.Handle(internalPath, internal)
		paths = append(paths, internalPath)
	}

	if cfg.Server.Path != defaultPath && (internal == nil || internalPath != defaultPath) {
		mux.Handle(defaultPath, handler)
		paths = append(paths, defaultPath)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	return &Server{
		addr:   addr,
		paths:  paths,
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routing handler of the server.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting exporter", "addr", s.addr, "paths", s.paths)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down exporter")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs scrape requests when debug logging is enabled
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("scrape", "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
