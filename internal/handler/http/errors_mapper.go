package http

import (
	"errors"
	"net/http"

	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/service"
	"github.com/svthalia/concrexit-sub001/internal/store"
)

var errorStatusMap = map[error]int{
	ErrWebhookTokenMismatch:   http.StatusUnauthorized,
	ErrAdministrationMismatch: http.StatusForbidden,

	service.ErrInvalidEvent:     http.StatusBadRequest,
	service.ErrSyncInProgress:   http.StatusConflict,
	service.ErrReadOnlyResource: http.StatusConflict,

	adapter.ErrNotFound:  http.StatusBadGateway,
	adapter.ErrThrottled: http.StatusServiceUnavailable,

	store.ErrRemoteIDConflict:   http.StatusConflict,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
	store.ErrEncodingData:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
