package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/focus"
	"github.com/vytor/pixelplay/internal/models"
)

type focusSessionResponse struct {
	ID              string           `json:"id"`
	Type            models.FocusType `json:"type"`
	StartTime       time.Time        `json:"start_time"`
	DurationSeconds int              `json:"duration_seconds"`
	Completed       bool             `json:"completed"`
	EndTime         *time.Time       `json:"end_time"`
}

func newFocusSessionResponse(s models.FocusSession) focusSessionResponse {
	return focusSessionResponse{
		ID:              s.ID,
		Type:            s.Type,
		StartTime:       s.StartTime,
		DurationSeconds: secs(s.Duration),
		Completed:       s.Completed,
		EndTime:         s.EndTime,
	}
}

type focusResponse struct {
	State            focus.State           `json:"state"`
	SessionID        string                `json:"session_id,omitempty"`
	Type             models.FocusType      `json:"type"`
	StartTime        *time.Time            `json:"start_time"`
	PlannedEnd       *time.Time            `json:"planned_end"`
	DurationSeconds  int                   `json:"duration_seconds"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	Progress         float64               `json:"progress"`
	LastSession      *focusSessionResponse `json:"last_session"`
}

func newFocusResponse(s *focus.Snapshot) focusResponse {
	resp := focusResponse{
		State:            s.State,
		SessionID:        s.SessionID,
		Type:             s.Type,
		StartTime:        s.StartTime,
		PlannedEnd:       s.PlannedEnd,
		DurationSeconds:  secs(s.Duration),
		RemainingSeconds: secs(s.Remaining),
		Progress:         s.Progress(),
	}
	if s.LastSession != nil {
		last := newFocusSessionResponse(*s.LastSession)
		resp.LastSession = &last
	}
	return resp
}

type focusSummaryResponse struct {
	TodayFocusSeconds   int     `json:"today_focus_seconds"`
	WeekFocusSeconds    int     `json:"week_focus_seconds"`
	DailyProgress       float64 `json:"daily_progress"`
	WeeklyProgress      float64 `json:"weekly_progress"`
	FocusStreak         int     `json:"focus_streak"`
	TotalSessions       int     `json:"total_sessions"`
	CompletedSessions   int     `json:"completed_sessions"`
	TotalFocusSeconds   int     `json:"total_focus_seconds"`
	AverageFocusSeconds int     `json:"average_focus_seconds"`
	LongestSession      int     `json:"longest_session_seconds"`
}

type startFocusRequest struct {
	Type            *models.FocusType `json:"type"`
	DurationSeconds *int              `json:"duration_seconds"`
}

func (s *Server) handleStartFocus(w http.ResponseWriter, r *http.Request) {
	var req startFocusRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Type == nil {
		handleError(w, r, errors.NewValidationError("type", "is required"))
		return
	}

	var duration *time.Duration
	if req.DurationSeconds != nil {
		d := time.Duration(*req.DurationSeconds) * time.Second
		duration = &d
	}

	snap, err := s.FocusService.StartSession(r.Context(), *req.Type, duration)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newFocusResponse(snap))
}

func (s *Server) handleCurrentFocus(w http.ResponseWriter, r *http.Request) {
	s.respondFocus(w, r, s.FocusService.CurrentSession)
}

func (s *Server) handlePauseFocus(w http.ResponseWriter, r *http.Request) {
	s.respondFocus(w, r, s.FocusService.PauseSession)
}

func (s *Server) handleResumeFocus(w http.ResponseWriter, r *http.Request) {
	s.respondFocus(w, r, s.FocusService.ResumeSession)
}

func (s *Server) handleStopFocus(w http.ResponseWriter, r *http.Request) {
	s.respondFocus(w, r, s.FocusService.StopSession)
}

func (s *Server) respondFocus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) (*focus.Snapshot, error)) {
	snap, err := op(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newFocusResponse(snap))
}

func (s *Server) handleFocusHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, s.HistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sessions, err := s.FocusService.History(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	out := make([]focusSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, newFocusSessionResponse(session))
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleFocusSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.FocusService.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, focusSummaryResponse{
		TodayFocusSeconds:   secs(sum.TodayFocusTime),
		WeekFocusSeconds:    secs(sum.WeekFocusTime),
		DailyProgress:       sum.DailyProgress,
		WeeklyProgress:      sum.WeeklyProgress,
		FocusStreak:         sum.FocusStreak,
		TotalSessions:       sum.TotalSessions,
		CompletedSessions:   sum.CompletedSessions,
		TotalFocusSeconds:   secs(sum.TotalFocusTime),
		AverageFocusSeconds: secs(sum.AverageFocusTime),
		LongestSession:      secs(sum.LongestSession),
	})
}
