package ledger

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID attaches a request correlation id to the context; audit
// entries written during the request carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request correlation id, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
