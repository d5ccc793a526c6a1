// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks resource type descriptors and incoming webhook
// events before the synchronization services act on them.
//
// A Validator may be restricted to a subset of named fields; when no field
// is given, the default set for the value's type is checked.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
