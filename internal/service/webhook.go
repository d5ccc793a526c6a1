package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/internal/validators"
	"github.com/svthalia/concrexit-sub001/models"
)

const destroyedActionSuffix = "_destroyed"

type webhookProcessor struct {
	registry  *Registry
	repo      store.ResourceRepository
	validator validators.Validator
}

// NewWebhookProcessor returns a [WebhookService] applying events through the
// resource types of registry.
func NewWebhookProcessor(registry *Registry, repo store.ResourceRepository) WebhookService {
	return &webhookProcessor{
		registry:  registry,
		repo:      repo,
		validator: validators.NewResourceValidator(),
	}
}

// Process implements [WebhookService]. An event without payload, or a
// destroy event, deletes the local mirror; any other event upserts it from
// the payload.
func (p *webhookProcessor) Process(ctx context.Context, event models.WebhookEvent) error {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	t, err := p.registry.ByEntity(event.Entity)
	if err != nil {
		return err
	}
	kind := t.Config().Kind

	if len(event.Payload) == 0 || strings.HasSuffix(event.Action, destroyedActionSuffix) {
		n, delErr := p.repo.DeleteByRemoteIDs(ctx, kind, []models.RemoteID{event.EntityID})
		if delErr != nil {
			return delErr
		}
		log.Info().
			Str("func", "webhookProcessor.Process").
			Str("kind", kind).
			Str("remote_id", event.EntityID.String()).
			Int64("deleted", n).
			Msg("local mirror deleted")
		return nil
	}

	if _, err = t.GetOrCreateFromRemote(ctx, event.EntityID, event.Payload); err != nil {
		return err
	}

	log.Info().
		Str("func", "webhookProcessor.Process").
		Str("kind", kind).
		Str("remote_id", event.EntityID.String()).
		Str("action", event.Action).
		Msg("local mirror updated")
	return nil
}
