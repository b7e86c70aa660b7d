package api

import (
	"fmt"
	"net/http"

	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.AsAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, r, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func errNoRoute(r *http.Request) *errors.AppError {
	return errors.NewNotFoundError("route", fmt.Sprintf("%s %s", r.Method, r.URL.Path))
}
