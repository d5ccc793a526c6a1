// Package workers runs the background jobs of the synchronization service.
// It defines the Worker interface and a Workers aggregate that runs several
// workers side by side until their context is cancelled.
package workers

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/workers_mock.go -package=mock

// Worker is a background job. Run blocks until ctx is cancelled or the
// job has nothing left to do.
type Worker interface {
	Run(ctx context.Context) error
}

// SyncRunner starts one synchronization pass. It returns
// service.ErrSyncInProgress when a pass is already running.
type SyncRunner interface {
	Run(ctx context.Context) error
}
