// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDCtxKey(t *testing.T) {
	assert.Equal(t, "traceID", TraceIDCtxKey.String())
}

func TestGetTraceIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
		wantOK bool
	}{
		{name: "stored", ctx: WithTraceID(context.Background(), "abc"), wantID: "abc", wantOK: true},
		{name: "missing", ctx: context.Background()},
		{name: "empty", ctx: WithTraceID(context.Background(), "")},
		{name: "wrong type", ctx: context.WithValue(context.Background(), TraceIDCtxKey, 42)},
		{name: "plain string key does not collide", ctx: context.WithValue(context.Background(), "traceID", "abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetTraceIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNewSortableID(t *testing.T) {
	a := NewSortableID()
	b := NewSortableID()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a, b)
}
