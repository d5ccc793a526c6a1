package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/svthalia/concrexit-sub001/models"
)

// ResourceRepository persists local mirror records.
//
// Remote ids are unique per base kind. Save reports a collision with another
// row as [ErrRemoteIDConflict]; deleting a document removes its lines.
type ResourceRepository interface {
	// Get returns the record with the given local id or [ErrResourceNotFound].
	Get(ctx context.Context, id uuid.UUID) (*models.Resource, error)

	// GetByRemoteID returns the record of kind with the given remote id or
	// [ErrResourceNotFound].
	GetByRemoteID(ctx context.Context, kind string, remoteID models.RemoteID) (*models.Resource, error)

	// ListPending returns the records of kind that are unsynced or flagged
	// for deletion, oldest first.
	ListPending(ctx context.Context, kind string) ([]*models.Resource, error)

	// ListLines returns the lines owned by parentID ordered by position.
	ListLines(ctx context.Context, parentID uuid.UUID) ([]*models.Resource, error)

	// RemoteIDs returns the remote ids of all records of kind that have one.
	RemoteIDs(ctx context.Context, kind string) ([]models.RemoteID, error)

	// RemoteVersions returns {remote id: remote version} for all records of
	// kind that have a remote id. Unknown versions are nil.
	RemoteVersions(ctx context.Context, kind string) (map[models.RemoteID]*int64, error)

	// Save inserts or updates r by its local id.
	Save(ctx context.Context, r *models.Resource) error

	// Delete removes the record and its lines.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByRemoteIDs removes all records of kind with one of the remote
	// ids in a single operation.
	DeleteByRemoteIDs(ctx context.Context, kind string, ids []models.RemoteID) (int64, error)

	// DeleteByKindAndRemoteID removes the record of kind holding remoteID,
	// unless it is the record with local id except.
	DeleteByKindAndRemoteID(ctx context.Context, kind string, remoteID models.RemoteID, except uuid.UUID) (int64, error)

	// DeleteByBaseKindAndRemoteID is DeleteByKindAndRemoteID matched on the
	// base kind.
	DeleteByBaseKindAndRemoteID(ctx context.Context, baseKind string, remoteID models.RemoteID, except uuid.UUID) (int64, error)

	// DeleteWithoutRemoteID removes all records of kind that were never
	// assigned a remote id.
	DeleteWithoutRemoteID(ctx context.Context, kind string) (int64, error)
}

// ErrorClassificator classifies driver errors of one SQL backend.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
