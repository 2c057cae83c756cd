package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anu-bioinfo/pathway-connectivity/internal/config"
)

// Server is the optional status endpoint of a scoring run.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New constructs a Server instance using the provided router.
func New(logger *slog.Logger, cfg config.HTTPConfig, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start begins listening for HTTP traffic. It blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting status server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down status server")
	return s.httpServer.Shutdown(ctx)
}
