// Package utils provides small helpers shared across the service: context
// keys, id generation, JSON responses and the outbound HTTP client.
package utils

import (
	"context"
)

// contextKey is a private type for context keys, so string keys of other
// packages never collide with ours.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// TraceIDCtxKey is the context key of the request trace id.
var TraceIDCtxKey = contextKey("traceID")

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext returns the trace id stored by [WithTraceID].
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}
