package http

import (
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
)

// Settings holds the values inbound requests are checked against.
type Settings struct {
	// WebhookToken must equal the webhook_token of every event.
	WebhookToken string
	// AdministrationID must equal the administration_id of every event.
	AdministrationID string
	// AdminToken is the bearer token of the synchronization endpoints.
	// Empty leaves them unregistered.
	AdminToken string
}

type Handler struct {
	webhooks service.WebhookService
	syncer   service.SyncService
	settings Settings

	logger *logger.Logger
}

func NewHandler(webhooks service.WebhookService, syncer service.SyncService, settings Settings, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		webhooks: webhooks,
		syncer:   syncer,
		settings: settings,
		logger:   logger,
	}
}
