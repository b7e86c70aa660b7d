package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/pixelplay/internal/logger"
)

// handleHealth is the liveness probe; it always answers 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady answers 503 while the database cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if err := s.checkDatabase(ctx); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) checkDatabase(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}
