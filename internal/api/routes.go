package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleStartGame)
			r.Get("/history", s.handleGameHistory)
			r.Get("/current", s.handleCurrentGame)
			r.Post("/current/pause", s.handlePauseGame)
			r.Post("/current/resume", s.handleResumeGame)
			r.Post("/current/moves", s.handleMakeMove)
			r.Post("/current/powerups/{type}", s.handleUsePowerUp)
			r.Post("/current/end", s.handleEndGame)
		})

		r.Route("/focus", func(r chi.Router) {
			r.Post("/", s.handleStartFocus)
			r.Get("/history", s.handleFocusHistory)
			r.Get("/summary", s.handleFocusSummary)
			r.Get("/current", s.handleCurrentFocus)
			r.Post("/current/pause", s.handlePauseFocus)
			r.Post("/current/resume", s.handleResumeFocus)
			r.Post("/current/stop", s.handleStopFocus)
		})

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile/settings", s.handleUpdateSettings)
		r.Get("/stats", s.handleStats)
		r.Get("/achievements", s.handleAchievements)
		r.Delete("/data", s.handleClearData)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute(r))
	})
	return r
}
