package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/utils"
)

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "reuses the caller's trace id", incoming: "my-custom-trace-id"},
		{name: "generates a trace id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{logger: logger.Nop()}

			var ctxTraceID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxTraceID, _ = utils.GetTraceIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(traceIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, ctxTraceID)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			}
		})
	}
}

func TestWithTraceID_LoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(traceIDHeader, "trace-1")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"trace-1"`)
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		body     string
		contains []string
	}{
		{
			name:     "GET 200",
			method:   http.MethodGet,
			path:     "/sync/status",
			status:   http.StatusOK,
			body:     "OK",
			contains: []string{`"method":"GET"`, `"path":"/sync/status"`, `"status":200`, `"size":2`, `"duration":`},
		},
		{
			name:     "POST 401 without body",
			method:   http.MethodPost,
			path:     "/webhooks/remote",
			status:   http.StatusUnauthorized,
			contains: []string{`"method":"POST"`, `"status":401`, `"size":0`, `"level":"info"`},
		},
		{
			name:     "server error at warn",
			method:   http.MethodPost,
			path:     "/sync",
			status:   http.StatusInternalServerError,
			contains: []string{`"level":"warn"`, `"status":500`, `"message":"request served"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: logger.Nop()}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
			rr := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	t.Run("implicit 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rec}

		n, err := rw.Write([]byte("hello"))

		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, http.StatusOK, rw.status)
		assert.Equal(t, 5, rw.size)
	})

	t.Run("header written once", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rec}

		rw.WriteHeader(http.StatusAccepted)
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte("a"))
		rw.Write([]byte("bc"))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, http.StatusAccepted, rw.status)
		assert.Equal(t, 3, rw.size)
	})

	t.Run("unwrap", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rec}
		assert.Equal(t, http.ResponseWriter(rec), rw.Unwrap())
	})
}

func TestCheckHTTPMethod(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/webhooks/remote", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/sync/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodPost, path: "/webhooks/remote", want: http.StatusOK},
		{method: http.MethodGet, path: "/webhooks/remote", want: http.StatusNotFound},
		{method: http.MethodDelete, path: "/sync/status", want: http.StatusNotFound},
		{method: http.MethodGet, path: "/sync/status", want: http.StatusOK},
		{method: http.MethodGet, path: "/unknown", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
