package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/svthalia/concrexit-sub001/internal/logger"
)

// withLogging writes one entry per request. Server errors are logged at
// warn level.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		var event *zerolog.Event
		log := logger.FromRequest(r)
		if rw.status >= http.StatusInternalServerError {
			event = log.Warn()
		} else {
			event = log.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Int("size", rw.size).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
