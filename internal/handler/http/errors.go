// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the admin token middleware when parsing the
// "Authorization" HTTP header.
var (
	// ErrEmptyAuthorizationHeader is returned when the request has no
	// "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header cannot be
	// split into a scheme and a token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the header carries a scheme but no
	// token.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrInvalidToken is returned when the token does not match.
	ErrInvalidToken = errors.New("invalid token")
)

// Errors returned for webhook events that fail the identity checks.
var (
	ErrWebhookTokenMismatch   = errors.New("webhook token does not match")
	ErrAdministrationMismatch = errors.New("event belongs to another administration")
)
