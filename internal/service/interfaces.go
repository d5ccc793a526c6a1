package service

import (
	"context"

	"github.com/svthalia/concrexit-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// WebhookService applies a single remote change notification.
type WebhookService interface {
	Process(ctx context.Context, event models.WebhookEvent) error
}

// SyncService runs and reports synchronization passes.
type SyncService interface {
	Run(ctx context.Context) error
	Running() bool
}
