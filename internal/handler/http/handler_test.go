package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/mock"
	"go.uber.org/mock/gomock"
)

const (
	testWebhookToken = "hook-secret"
	testAdminID      = "123456"
	testAdminToken   = "admin-secret"
)

type handlerFixture struct {
	handler  *Handler
	webhooks *mock.MockWebhookService
	syncer   *mock.MockSyncService
	router   http.Handler
}

func newHandlerFixture(t *testing.T, settings Settings) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &handlerFixture{
		webhooks: mock.NewMockWebhookService(ctrl),
		syncer:   mock.NewMockSyncService(ctrl),
	}
	f.handler = NewHandler(f.webhooks, f.syncer, settings, logger.Nop())
	f.router = f.handler.Init()
	return f
}

func defaultSettings() Settings {
	return Settings{
		WebhookToken:     testWebhookToken,
		AdministrationID: testAdminID,
		AdminToken:       testAdminToken,
	}
}

func (f *handlerFixture) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	for key, values := range header {
		req.Header[key] = values
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
