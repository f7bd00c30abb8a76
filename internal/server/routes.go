package server

import (
	"net/http"
	"strconv"

	"github.com/matryer/way"

	"github.com/vovakirdan/mushroom-arena/internal/transport/ws"
)

const (
	defaultScoresLimit = 10
	maxScoresLimit     = 100
)

func (s *Server) routes() {
	s.router = way.NewRouter()

	s.router.Handle("GET", "/ws", ws.NewHandler(s.arena, ws.Options{
		SendBuffer:   s.cfg.SendBuffer,
		WriteTimeout: s.cfg.WriteTimeout,
		PongTimeout:  s.cfg.PongTimeout,
	}, s.logger))
	s.router.HandleFunc("GET", "/state", s.handleState)
	s.router.HandleFunc("GET", "/scores", s.handleScores)
	s.router.HandleFunc("GET", "/metrics", s.handleMetrics)
	s.router.HandleFunc("GET", "/healthz", s.handleHealth)

	if s.cfg.StaticDir != "" {
		s.router.Handle("GET", "/...", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.arena.Latest())
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ledger disabled"})
		return
	}

	limit := defaultScoresLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxScoresLimit)
	}

	top, err := s.ledger.TopResults(limit)
	if err != nil {
		s.logger.Error("scores query", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger unavailable"})
		return
	}
	stats, err := s.ledger.Stats()
	if err != nil {
		s.logger.Error("stats query", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"top":   top,
		"stats": stats,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.arena.Metrics().Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"players": len(s.arena.Latest().Players),
	})
}
