package http

import (
	"net/http"

	"github.com/svthalia/concrexit-sub001/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID reuses the caller's X-Trace-ID or generates one, and attaches
// a logger carrying it to the request context.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = utils.NewSortableID()
		}

		l := h.logger.WithStr("trace_id", traceID)
		ctx := utils.WithTraceID(r.Context(), traceID)
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
