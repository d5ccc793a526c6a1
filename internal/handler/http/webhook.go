package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
	"github.com/svthalia/concrexit-sub001/internal/utils"
	"github.com/svthalia/concrexit-sub001/models"
)

const (
	maxWebhookBodySize = 1 << 20
	testWebhookAction  = "test_webhook"
)

type errorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// receiveWebhook applies one remote webhook event to the local mirror.
//
// Events for entities that are not mirrored are acknowledged and dropped,
// since the remote retries every non-2xx delivery.
func (h *Handler) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var event models.WebhookEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodySize)).Decode(&event); err != nil {
		log.Err(err).Str("func", "*Handler.receiveWebhook").Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidEvent)
		return
	}

	if err := h.checkEvent(event); err != nil {
		log.Warn().Err(err).
			Str("func", "*Handler.receiveWebhook").
			Str("administration_id", event.AdministrationID.String()).
			Msg("webhook event rejected")
		h.writeError(w, r, err)
		return
	}

	if event.Action == testWebhookAction {
		log.Info().Str("func", "*Handler.receiveWebhook").Msg("test webhook received")
		w.WriteHeader(http.StatusOK)
		return
	}

	err := h.webhooks.Process(ctx, event)
	switch {
	case errors.Is(err, service.ErrUnknownEntity):
		log.Debug().Str("func", "*Handler.receiveWebhook").Str("entity", event.Entity).Msg("event for unmirrored entity ignored")
	case err != nil:
		log.Err(err).
			Str("func", "*Handler.receiveWebhook").
			Str("entity", event.Entity).
			Str("entity_id", event.EntityID.String()).
			Msg("error processing webhook event")
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) checkEvent(event models.WebhookEvent) error {
	if subtle.ConstantTimeCompare([]byte(event.WebhookToken), []byte(h.settings.WebhookToken)) != 1 {
		return ErrWebhookTokenMismatch
	}
	if h.settings.AdministrationID != "" && event.AdministrationID.String() != h.settings.AdministrationID {
		return ErrAdministrationMismatch
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	traceID, _ := utils.GetTraceIDFromContext(r.Context())
	utils.WriteJSON(w, errorResponse{Error: err.Error(), TraceID: traceID}, statusFromError(err))
}
