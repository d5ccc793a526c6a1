package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/svthalia/concrexit-sub001/internal/service"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/models"
	"go.uber.org/mock/gomock"
)

func webhookBody(action string) map[string]any {
	return map[string]any{
		"administration_id": testAdminID,
		"webhook_id":        "99",
		"webhook_token":     testWebhookToken,
		"entity_type":       "Contact",
		"entity_id":         5,
		"action":            action,
		"entity":            map[string]any{"id": "5", "company_name": "Thalia"},
	}
}

func TestReceiveWebhook_Processes(t *testing.T) {
	f := newHandlerFixture(t, defaultSettings())

	f.webhooks.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event models.WebhookEvent) error {
			assert.Equal(t, "Contact", event.Entity)
			assert.Equal(t, models.RemoteID("5"), event.EntityID)
			assert.Equal(t, "contact_changed", event.Action)
			assert.Equal(t, "Thalia", event.Payload["company_name"])
			return nil
		})

	rr := f.do(http.MethodPost, webhookPath, webhookBody("contact_changed"), nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}

func TestReceiveWebhook_TestPing(t *testing.T) {
	f := newHandlerFixture(t, defaultSettings())

	rr := f.do(http.MethodPost, webhookPath, webhookBody(testWebhookAction), nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReceiveWebhook_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(body map[string]any)
		raw        string
		wantStatus int
	}{
		{
			name:       "wrong token",
			mutate:     func(body map[string]any) { body["webhook_token"] = "guess" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			mutate:     func(body map[string]any) { delete(body, "webhook_token") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "other administration",
			mutate:     func(body map[string]any) { body["administration_id"] = 42 },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "test ping with wrong token",
			mutate:     func(body map[string]any) { body["action"] = testWebhookAction; body["webhook_token"] = "guess" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid JSON",
			raw:        `{"entity_type":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, defaultSettings())

			var body any
			if tt.raw != "" {
				body = tt.raw
			} else {
				b := webhookBody("contact_changed")
				tt.mutate(b)
				body = b
			}

			rr := f.do(http.MethodPost, webhookPath, body, nil)

			assert.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeBody[errorResponse](t, rr)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, rr.Header().Get(traceIDHeader), resp.TraceID)
		})
	}
}

func TestReceiveWebhook_AnyAdministrationWhenUnset(t *testing.T) {
	settings := defaultSettings()
	settings.AdministrationID = ""
	f := newHandlerFixture(t, settings)

	f.webhooks.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil)

	body := webhookBody("contact_changed")
	body["administration_id"] = "777"
	rr := f.do(http.MethodPost, webhookPath, body, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReceiveWebhook_ProcessErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unmirrored entity is acknowledged", err: service.ErrUnknownEntity, wantStatus: http.StatusOK},
		{name: "invalid event", err: service.ErrInvalidEvent, wantStatus: http.StatusBadRequest},
		{name: "storage failure", err: store.ErrExecutingStatement, wantStatus: http.StatusInternalServerError},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, defaultSettings())
			f.webhooks.EXPECT().Process(gomock.Any(), gomock.Any()).Return(tt.err)

			rr := f.do(http.MethodPost, webhookPath, webhookBody("contact_changed"), nil)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestReceiveWebhook_WrongMethodIsNotFound(t *testing.T) {
	f := newHandlerFixture(t, defaultSettings())

	rr := f.do(http.MethodGet, webhookPath, nil, nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
