package api

import (
	"net/http"
	"time"

	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
)

type achievementResponse struct {
	Type        models.AchievementType `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Points      int                    `json:"points"`
	Unlocked    bool                   `json:"unlocked"`
	UnlockedAt  *time.Time             `json:"unlocked_at"`
	Progress    float64                `json:"progress"`
}

func newAchievementResponses(achs []models.Achievement) []achievementResponse {
	out := make([]achievementResponse, 0, len(achs))
	for _, a := range achs {
		out = append(out, achievementResponse{
			Type:        a.Type,
			Title:       a.Type.Title(),
			Description: a.Type.Description(),
			Points:      a.Type.Points(),
			Unlocked:    a.Unlocked(),
			UnlockedAt:  a.UnlockedAt,
			Progress:    a.Progress,
		})
	}
	return out
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	view, err := s.StatsService.GetStatistics(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	achs, err := s.StatsService.GetAchievements(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"achievements": newAchievementResponses(achs)})
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	s.GameService.Reset(r.Context())
	if err := s.StatsService.ClearAll(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("all data cleared")
	w.WriteHeader(http.StatusNoContent)
}
