// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer used to talk to the remote
// accounting API.
//
// The primary abstraction is [RemoteClient], which decouples the resource
// descriptors from the underlying protocol. The package ships a JSON-over-HTTP
// implementation built on resty ([NewHTTPRemoteClient]).
//
// Every non-success response is returned as an [*Error] that unwraps to one
// of the sentinel values in errors.go, so callers can use [errors.Is] (e.g.
// [ErrNotFound] for 404, [ErrThrottled] for 429) and [errors.As] to read the
// status code, description and retry-after timestamp.
package adapter

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/svthalia/concrexit-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient issues requests against the tenant-scoped remote API.
//
// path arguments are relative to the tenant root and carry no ".json" suffix
// (e.g. "contacts" or "contacts/42"); a leading "/" is rejected with
// [ErrInvalidPath] before any request is sent. A nil result with a nil error
// means the remote answered with an empty success body.
type RemoteClient interface {
	// Get requests path with the given query parameters.
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)

	// Post sends body as JSON to path.
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Patch sends body as JSON to path.
	Patch(ctx context.Context, path string, body any) (json.RawMessage, error)

	// Delete removes the resource at path.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the human-facing URL of the resource id under path.
	PublicURL(path string, id models.RemoteID) string
}
