// Package server exposes the arena over HTTP: the WebSocket endpoint for
// players plus read-only JSON views of the world, the ledger and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/way"

	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
	"github.com/vovakirdan/mushroom-arena/internal/storage"
	"github.com/vovakirdan/mushroom-arena/internal/transport/ws"
)

// Arena is the part of *multiplayer.Arena the HTTP surface needs.
type Arena interface {
	ws.Inbox
	Latest() protocol.GameState
	Metrics() *multiplayer.Metrics
}

// Ledger is the read side of the score ledger.
type Ledger interface {
	TopResults(limit int) ([]storage.RunEntry, error)
	Stats() (storage.Stats, error)
}

// Server is the HTTP front of the arena.
type Server struct {
	cfg    config.ServerConfig
	arena  Arena
	ledger Ledger // Optional, can be nil
	logger *log.Logger
	router *way.Router
}

// New creates a server and registers its routes.
func New(cfg config.ServerConfig, arena Arena, ledger Ledger, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		arena:  arena,
		ledger: ledger,
		logger: logger,
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("http server stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// logRequests logs every non-WebSocket request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != "/ws" {
			s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
