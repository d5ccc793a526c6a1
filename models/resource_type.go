// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DefaultPageSize is the page size used for paginated collection fetches
// when a resource type does not configure one.
const DefaultPageSize = 100

// ResourceTypeConfig is the declarative description of one remote entity
// kind.
type ResourceTypeConfig struct {
	// Kind is the local model type the descriptor is registered under.
	Kind string

	// BaseKind is the most general type in Kind's local inheritance chain.
	// Empty means Kind itself.
	BaseKind string

	// EntityName is the remote entity name used in webhook events
	// (e.g. "Contact", "SalesInvoice").
	EntityName string

	// APIPath is the collection path relative to the tenant root
	// (e.g. "contacts"). It must not start with "/".
	APIPath string

	// PublicPath is the path used to build human-facing URLs.
	PublicPath string

	// Envelope wraps request bodies as {Envelope: body} when non-empty.
	Envelope string

	CanWrite      bool
	CanDelete     bool
	CanDoFullSync bool

	// Paginated enables page-by-page collection fetches of PageSize items.
	Paginated bool
	PageSize  int

	// FetchBeforePush re-derives PATCH bodies as a diff against the current
	// remote payload so that fields changed remotely are not overwritten.
	FetchBeforePush bool

	// ListParams are extra query parameters for collection and
	// synchronization requests (e.g. filters).
	ListParams map[string]string
}

// WithDefaults returns a copy of c with empty optional fields filled in.
func (c ResourceTypeConfig) WithDefaults() ResourceTypeConfig {
	if c.BaseKind == "" {
		c.BaseKind = c.Kind
	}
	if c.PublicPath == "" {
		c.PublicPath = c.APIPath
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}

// DocumentLinesConfig describes the nested line collection of a document
// resource type.
type DocumentLinesConfig struct {
	// LineKind is the local model type of the lines.
	LineKind string

	// LineBaseKind defaults to LineKind.
	LineBaseKind string

	// LinesKey is the key holding the line list in remote responses
	// (e.g. "details").
	LinesKey string

	// LinesAttributesKey is the key holding the line list in request bodies
	// (e.g. "details_attributes"). Defaults to LinesKey.
	LinesAttributesKey string
}

// WithDefaults returns a copy of c with empty optional fields filled in.
func (c DocumentLinesConfig) WithDefaults() DocumentLinesConfig {
	if c.LineBaseKind == "" {
		c.LineBaseKind = c.LineKind
	}
	if c.LinesAttributesKey == "" {
		c.LinesAttributesKey = c.LinesKey
	}
	return c
}
