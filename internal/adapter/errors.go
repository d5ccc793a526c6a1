package adapter

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors of the remote error taxonomy. Every [*Error] unwraps to
// exactly one of them.
var (
	ErrInvalidData   = errors.New("invalid data")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrThrottled     = errors.New("throttled")
	ErrServerError   = errors.New("server error")
	ErrUnknownStatus = errors.New("unknown status code")
)

var (
	// ErrInvalidPath is returned for request paths starting with "/".
	ErrInvalidPath = errors.New("path must be relative to the tenant root")
	// ErrMalformedResponse is returned when a success body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response body")
)

// Error describes a non-success response of the remote API.
type Error struct {
	StatusCode int

	// Description is the body's "error" field, empty when absent or when
	// the body could not be parsed.
	Description string

	// RetryAfter is set for throttled responses carrying a Retry-After
	// header.
	RetryAfter time.Time

	kind error
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("remote api: %d %s", e.StatusCode, e.kind)
	}
	return fmt.Sprintf("remote api: %d %s: %s", e.StatusCode, e.kind, e.Description)
}

func (e *Error) Unwrap() error {
	return e.kind
}
