package service

import "errors"

var (
	ErrSyncInProgress = errors.New("synchronization already in progress")

	ErrUnknownKind           = errors.New("no resource type registered for kind")
	ErrUnknownEntity         = errors.New("no resource type registered for entity")
	ErrDuplicateResourceType = errors.New("resource type already registered")
	ErrInvalidResourceType   = errors.New("invalid resource type")

	ErrNoRemoteID       = errors.New("resource has no remote id")
	ErrEmptyPayload     = errors.New("remote returned an empty payload")
	ErrNotALine         = errors.New("resource is not a document line")
	ErrInvalidEvent     = errors.New("invalid webhook event")
	ErrReadOnlyResource = errors.New("resource type is read-only")
)
