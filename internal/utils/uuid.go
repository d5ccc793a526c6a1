package utils

import "github.com/google/uuid"

// NewSortableID returns a time-ordered UUIDv7 string, falling back to a
// random UUIDv4 when the clock cannot be read.
func NewSortableID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
