package handler

import (
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/handler/http"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the inbound handlers enabled by cfg. The webhook
// administration id falls back to the remote tenant id.
func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	administrationID := cfg.Webhook.AdministrationID
	if administrationID == "" {
		administrationID = cfg.Remote.TenantID
	}

	settings := http.Settings{
		WebhookToken:     cfg.Webhook.Token,
		AdministrationID: administrationID,
		AdminToken:       cfg.Server.AdminToken,
	}

	return &Handlers{
		HTTP: http.NewHandler(services.WebhookService, services.SyncEngine, settings, logger),
	}, nil
}
