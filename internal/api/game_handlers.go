package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/game"
	"github.com/vytor/pixelplay/internal/logger"
	"github.com/vytor/pixelplay/internal/models"
)

type gameResponse struct {
	game.Snapshot
	FormattedTime string  `json:"formatted_time"`
	Completion    float64 `json:"completion"`
}

func newGameResponse(s *game.Snapshot) gameResponse {
	return gameResponse{
		Snapshot:      *s,
		FormattedTime: s.FormattedTime(),
		Completion:    s.Completion(),
	}
}

type startGameRequest struct {
	Difficulty *models.Difficulty `json:"difficulty"`
}

type moveRequest struct {
	Row    *int              `json:"row"`
	Column *int              `json:"column"`
	Color  *models.TileColor `json:"color"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.GameService.StartGame(r.Context(), req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newGameResponse(snap))
}

func (s *Server) handleCurrentGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.GameService.CurrentGame(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handlePauseGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.GameService.PauseGame(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handleResumeGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.GameService.ResumeGame(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Row == nil || req.Column == nil {
		handleError(w, r, errors.NewValidationError("position", "row and column are required"))
		return
	}
	if req.Color == nil {
		handleError(w, r, errors.NewValidationError("color", "is required"))
		return
	}

	pos := models.GridPosition{Row: *req.Row, Column: *req.Column}
	log.Debug("move: row=%d column=%d color=%s", pos.Row, pos.Column, *req.Color)

	snap, err := s.GameService.MakeMove(r.Context(), pos, *req.Color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handleUsePowerUp(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "type")
	t, err := models.ParsePowerUpType(raw)
	if err != nil {
		handleError(w, r, errors.NewValidationError("type", err.Error()))
		return
	}

	snap, err := s.GameService.UsePowerUp(r.Context(), t)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.GameService.EndGame(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newGameResponse(snap))
}

func (s *Server) handleGameHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, s.HistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.GameService.History(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if records == nil {
		records = []models.GameRecord{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"games": records})
}
