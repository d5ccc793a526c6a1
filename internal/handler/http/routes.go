package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	webhookPath    = "/webhooks/remote"
	syncPath       = "/sync"
	syncStatusPath = "/sync/status"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Post(webhookPath, h.receiveWebhook)

	// manual synchronization, only with an admin token configured
	if h.settings.AdminToken != "" {
		router.Group(func(r chi.Router) {
			r.Use(h.withAdminToken)
			r.Use(middleware.Compress(5, "application/json"))
			r.Get(syncStatusPath, h.syncStatus)
			r.Post(syncPath, h.triggerSync)
		})
	}

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
