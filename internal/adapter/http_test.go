// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/logger"
)

// newTestClient creates an httpRemoteClient pointed at the test server with
// tenant "42".
func newTestClient(t *testing.T, serverURL string) *httpRemoteClient {
	t.Helper()
	cfg := config.Remote{
		APIBase:        serverURL + "/api/v2",
		WebBase:        "https://web.example.com/",
		TenantID:       "42",
		Token:          "secret",
		RequestTimeout: 5 * time.Second,
	}

	c, err := NewHTTPRemoteClient(cfg, logger.Nop())
	require.NoError(t, err)
	return c.(*httpRemoteClient)
}

// ── constructor ─────────────────────────────────────────────────────────────

func TestNewHTTPRemoteClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Remote
	}{
		{name: "empty api base", cfg: config.Remote{TenantID: "42"}},
		{name: "empty tenant", cfg: config.Remote{APIBase: "https://api.example.com"}},
		{name: "bad web base", cfg: config.Remote{APIBase: "https://api.example.com", WebBase: "http://", TenantID: "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPRemoteClient(tt.cfg, logger.Nop())
			assert.Error(t, err)
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL(" api.example.com/v2/ ")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v2", got)
}

// ── request building ─────────────────────────────────────────────────────────

func TestGet_BuildsTenantURLWithParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/42/contacts.json", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Get(context.Background(), "contacts", url.Values{"page": {"2"}})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))
}

func TestPost_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/42/contacts/synchronization.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ids":["1","2"]}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"1"},{"id":"2"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Post(context.Background(), "contacts/synchronization", map[string]any{"ids": []string{"1", "2"}})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, string(got))
}

func TestPatch_UsesInstancePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v2/42/contacts/7.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"7","version":3}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Patch(context.Background(), "contacts/7", map[string]any{"contact": map[string]any{"city": "Nijmegen"}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","version":3}`, string(got))
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v2/42/contacts/7.json", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.Delete(context.Background(), "contacts/7"))
}

func TestRequest_RejectsAbsolutePath(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/contacts", nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = c.Post(context.Background(), "/contacts", map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, c.Delete(context.Background(), "/contacts/1"), ErrInvalidPath)
	assert.Zero(t, calls.Load())
}

func TestPublicURL(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	assert.Equal(t, "https://web.example.com/42/sales_invoices/99", c.PublicURL("sales_invoices", "99"))
}

// ── response mapping ─────────────────────────────────────────────────────────

func TestParseResponse_EmptySuccessBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "empty ok", status: http.StatusOK},
		{name: "literal 200", status: http.StatusOK, body: "200"},
		{name: "quoted 200", status: http.StatusOK, body: `"200"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			got, err := c.Get(context.Background(), "contacts/1", nil)

			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestParseResponse_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Get(context.Background(), "contacts/1", nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResponse_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
		desc   string
	}{
		{status: http.StatusBadRequest, body: `{"error":"name is required"}`, want: ErrInvalidData, desc: "name is required"},
		{status: http.StatusNotAcceptable, want: ErrInvalidData},
		{status: http.StatusUnprocessableEntity, body: `{"error":{"name":["blank"]}}`, want: ErrInvalidData, desc: `{"name":["blank"]}`},
		{status: http.StatusUnauthorized, body: `{"error":"token invalid"}`, want: ErrUnauthorized, desc: "token invalid"},
		{status: http.StatusForbidden, want: ErrUnauthorized},
		{status: http.StatusNotFound, body: "not json", want: ErrNotFound},
		{status: http.StatusInternalServerError, want: ErrServerError},
		{status: http.StatusBadGateway, want: ErrUnknownStatus},
		{status: http.StatusConflict, body: `{"error":"conflict"}`, want: ErrUnknownStatus, desc: "conflict"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.Get(context.Background(), "contacts/1", nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var remoteErr *Error
			require.True(t, errors.As(err, &remoteErr))
			assert.Equal(t, tt.status, remoteErr.StatusCode)
			assert.Equal(t, tt.desc, remoteErr.Description)
		})
	}
}

func TestParseResponse_ThrottledCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1767225600")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Post(context.Background(), "contacts/synchronization", map[string]any{"ids": []string{"1"}})

	require.ErrorIs(t, err, ErrThrottled)
	var remoteErr *Error
	require.True(t, errors.As(err, &remoteErr))
	assert.True(t, remoteErr.RetryAfter.Equal(time.Unix(1767225600, 0)))
	assert.Equal(t, "rate limited", remoteErr.Description)
}

func TestParseRetryAfter(t *testing.T) {
	assert.True(t, parseRetryAfter("").IsZero())
	assert.True(t, parseRetryAfter("soon").IsZero())
	assert.Equal(t, int64(10), parseRetryAfter("10").Unix())

	date := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.True(t, parseRetryAfter(date.Format(http.TimeFormat)).Equal(date))
}

func TestError_Message(t *testing.T) {
	err := &Error{StatusCode: 404, kind: ErrNotFound}
	assert.Equal(t, "remote api: 404 not found", err.Error())

	err.Description = "record missing"
	assert.Equal(t, "remote api: 404 not found: record missing", err.Error())
}

func TestNewError_Kinds(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnprocessableEntity, ErrInvalidData},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrThrottled},
		{http.StatusBadGateway, ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewError(tt.status, "")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}
