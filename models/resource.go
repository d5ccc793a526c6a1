// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RemoteID is the opaque identifier the remote accounting system assigns to a
// resource. The remote API is inconsistent about encoding ids as JSON strings
// or numbers, so both are accepted when decoding.
type RemoteID string

// UnmarshalJSON implements [json.Unmarshaler].
func (id *RemoteID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode remote id: %w", err)
		}
		*id = RemoteID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode remote id: %w", err)
	}
	*id = RemoteID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id RemoteID) String() string {
	return string(id)
}

// Resource is the local mirror of one remote resource (or of a line item
// owned by a remote document).
//
// A Resource is created locally unsynced, gets RemoteID assigned on its first
// push and flips Synced to false on every local mutation. Every successful
// pull or refresh sets Synced and clears PendingDelete.
type Resource struct {
	// ID is the local primary key.
	ID uuid.UUID `json:"id"`

	// Kind names the local model type (e.g. "contact", "sales_invoice").
	Kind string `json:"kind"`

	// BaseKind names the most general type in Kind's local inheritance chain.
	// RemoteID is unique per BaseKind.
	BaseKind string `json:"base_kind"`

	// RemoteID is nil until the resource has been pushed or pulled.
	RemoteID *RemoteID `json:"remote_id,omitempty"`

	// RemoteVersion is the last known remote version. Nil means unknown and is
	// treated as older than any real remote version.
	RemoteVersion *int64 `json:"remote_version,omitempty"`

	// Synced reports whether Data equals the last known remote payload.
	Synced bool `json:"synced"`

	// PendingDelete marks a resource that must be deleted remotely before it
	// is destroyed locally.
	PendingDelete bool `json:"pending_delete"`

	// ParentID links a document line to the document owning it.
	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	// Position orders lines inside their document.
	Position int `json:"position"`

	// Data holds the mirrored remote fields.
	Data Payload `json:"data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewResource returns an unsynced resource of the given kind with a fresh
// local id.
func NewResource(kind, baseKind string) *Resource {
	if baseKind == "" {
		baseKind = kind
	}
	return &Resource{
		ID:       uuid.New(),
		Kind:     kind,
		BaseKind: baseKind,
		Data:     Payload{},
	}
}

// HasRemoteID reports whether the resource is known to the remote system.
func (r *Resource) HasRemoteID() bool {
	return r.RemoteID != nil && *r.RemoteID != ""
}

// RemoteIDValue returns the remote id or an empty RemoteID.
func (r *Resource) RemoteIDValue() RemoteID {
	if r.RemoteID == nil {
		return ""
	}
	return *r.RemoteID
}

// SetRemoteID assigns id; an empty id clears it.
func (r *Resource) SetRemoteID(id RemoteID) {
	if id == "" {
		r.RemoteID = nil
		return
	}
	r.RemoteID = &id
}

// SetRemoteVersion assigns the remote version.
func (r *Resource) SetRemoteVersion(v int64) {
	r.RemoteVersion = &v
}

// IsLine reports whether the resource is a line item of a document.
func (r *Resource) IsLine() bool {
	return r.ParentID != nil
}

// MarkChanged records a local mutation.
func (r *Resource) MarkChanged() {
	r.Synced = false
}

// MarkForDeletion flags the resource for remote deletion on the next push.
func (r *Resource) MarkForDeletion() {
	r.PendingDelete = true
	r.Synced = false
}

// Clone returns a deep copy of r.
func (r *Resource) Clone() *Resource {
	c := *r
	if r.RemoteID != nil {
		id := *r.RemoteID
		c.RemoteID = &id
	}
	if r.RemoteVersion != nil {
		v := *r.RemoteVersion
		c.RemoteVersion = &v
	}
	if r.ParentID != nil {
		p := *r.ParentID
		c.ParentID = &p
	}
	c.Data = r.Data.Clone()
	return &c
}
