package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
	"github.com/svthalia/concrexit-sub001/internal/utils"
)

type syncStatusResponse struct {
	Running bool `json:"running"`
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, syncStatusResponse{Running: h.syncer.Running()}, http.StatusOK)
}

// triggerSync starts a pass in the background and answers 202 Accepted, or
// 409 Conflict when a pass is already running.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if h.syncer.Running() {
		h.writeError(w, r, service.ErrSyncInProgress)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go h.runSync(ctx, log)

	log.Info().Str("func", "*Handler.triggerSync").Msg("manual synchronization started")
	utils.WriteJSON(w, syncStatusResponse{Running: true}, http.StatusAccepted)
}

// runSync runs one pass. Losing the race against a pass started between the
// Running check and Run is not a failure.
func (h *Handler) runSync(ctx context.Context, log *logger.Logger) {
	err := h.syncer.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSyncInProgress):
		log.Info().Str("func", "*Handler.runSync").Msg("synchronization already running")
	default:
		log.Err(err).Str("func", "*Handler.runSync").Msg("manual synchronization failed")
	}
}
