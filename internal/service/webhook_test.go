package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/models"
)

func TestWebhookProcessor_Process(t *testing.T) {
	t.Run("upserts from payload", func(t *testing.T) {
		f := newEngineFixture(t)
		ctx := context.Background()
		processor := NewWebhookProcessor(f.engine.registry, f.repo)

		err := processor.Process(ctx, models.WebhookEvent{
			Entity:   "Contact",
			EntityID: "5",
			Action:   "contact_changed",
			Payload:  models.Payload{"id": "5", "version": float64(2), "city": "Nijmegen"},
		})
		require.NoError(t, err)

		stored, err := f.repo.GetByRemoteID(ctx, models.KindContact, "5")
		require.NoError(t, err)
		assert.Equal(t, "Nijmegen", stored.Data["city"])
		assert.Equal(t, int64(2), *stored.RemoteVersion)
		assert.True(t, stored.Synced)
	})

	t.Run("updates the existing mirror", func(t *testing.T) {
		f := newEngineFixture(t)
		ctx := context.Background()
		processor := NewWebhookProcessor(f.engine.registry, f.repo)
		existing := savedContact(t, f.repo, "5", models.Payload{"city": "Arnhem"}, false)

		require.NoError(t, processor.Process(ctx, models.WebhookEvent{
			Entity:   "Contact",
			EntityID: "5",
			Action:   "contact_changed",
			Payload:  models.Payload{"id": "5", "city": "Nijmegen"},
		}))

		stored, err := f.repo.Get(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, "Nijmegen", stored.Data["city"])
	})

	t.Run("document with lines", func(t *testing.T) {
		f := newEngineFixture(t)
		ctx := context.Background()
		processor := NewWebhookProcessor(f.engine.registry, f.repo)

		var payload models.Payload
		require.NoError(t, json.Unmarshal([]byte(`{"id":"10","reference":"2026-001","details":[{"id":"100","description":"Beer"}]}`), &payload))

		require.NoError(t, processor.Process(ctx, models.WebhookEvent{
			Entity:   "SalesInvoice",
			EntityID: "10",
			Action:   "sales_invoice_updated",
			Payload:  payload,
		}))

		doc, err := f.repo.GetByRemoteID(ctx, models.KindSalesInvoice, "10")
		require.NoError(t, err)
		lines, err := f.repo.ListLines(ctx, doc.ID)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("destroy action deletes", func(t *testing.T) {
		f := newEngineFixture(t)
		ctx := context.Background()
		processor := NewWebhookProcessor(f.engine.registry, f.repo)
		existing := savedContact(t, f.repo, "5", nil, true)

		require.NoError(t, processor.Process(ctx, models.WebhookEvent{
			Entity:   "Contact",
			EntityID: "5",
			Action:   "contact_destroyed",
			Payload:  models.Payload{"id": "5"},
		}))

		_, err := f.repo.Get(ctx, existing.ID)
		assert.Error(t, err)
	})

	t.Run("empty payload deletes", func(t *testing.T) {
		f := newEngineFixture(t)
		ctx := context.Background()
		processor := NewWebhookProcessor(f.engine.registry, f.repo)
		existing := savedContact(t, f.repo, "5", nil, true)

		require.NoError(t, processor.Process(ctx, models.WebhookEvent{
			Entity:   "Contact",
			EntityID: "5",
			Action:   "contact_changed",
		}))

		_, err := f.repo.Get(ctx, existing.ID)
		assert.Error(t, err)
	})

	t.Run("delete of unknown id is a no-op", func(t *testing.T) {
		f := newEngineFixture(t)
		processor := NewWebhookProcessor(f.engine.registry, f.repo)

		assert.NoError(t, processor.Process(context.Background(), models.WebhookEvent{
			Entity:   "Contact",
			EntityID: "404",
			Action:   "contact_destroyed",
		}))
	})

	t.Run("unknown entity", func(t *testing.T) {
		f := newEngineFixture(t)
		processor := NewWebhookProcessor(f.engine.registry, f.repo)

		err := processor.Process(context.Background(), models.WebhookEvent{Entity: "TaxRate", EntityID: "1"})
		assert.ErrorIs(t, err, ErrUnknownEntity)
	})

	t.Run("missing entity id", func(t *testing.T) {
		f := newEngineFixture(t)
		processor := NewWebhookProcessor(f.engine.registry, f.repo)

		err := processor.Process(context.Background(), models.WebhookEvent{Entity: "Contact"})
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}

func TestWebhookProcessor_DoesNotCallRemote(t *testing.T) {
	f := newEngineFixture(t)
	processor := NewWebhookProcessor(f.engine.registry, f.repo)

	require.NoError(t, processor.Process(context.Background(), models.WebhookEvent{
		Entity:   "Project",
		EntityID: "1",
		Action:   "project_destroyed",
	}))
}
