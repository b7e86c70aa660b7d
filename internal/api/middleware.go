package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/pixelplay/internal/errors"
	"github.com/vytor/pixelplay/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder remembers the status and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// loggingMiddleware puts a request-scoped logger in the context and logs one
// line per request. Callers may supply their own X-Request-ID.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := logger.Default().WithFields(map[string]any{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		began := time.Now()
		next.ServeHTTP(rec, r.WithContext(logger.NewContext(r.Context(), log)))

		log = log.WithFields(map[string]any{
			"status":      rec.status,
			"bytes":       rec.bytes,
			"duration_ms": time.Since(began).Milliseconds(),
		})
		switch {
		case rec.status >= 500:
			log.Error("request failed")
		case rec.status >= 400:
			log.Warn("request rejected")
		default:
			log.Debug("request served")
		}
	})
}

// recoveryMiddleware turns a handler panic into a JSON 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.FromContext(r.Context()).Error("panic serving %s %s: %v", r.Method, r.URL.Path, v)
				writeJSON(w, r, http.StatusInternalServerError, map[string]any{
					"error": map[string]any{"code": errors.ErrCodeInternal, "message": "internal server error"},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
