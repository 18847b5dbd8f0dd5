package ctxutil

import (
	"context"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	pageKey      ctxKey = "page"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithPage stores the name of the admin page issuing calls, for log correlation.
func WithPage(ctx context.Context, page string) context.Context {
	return context.WithValue(ctx, pageKey, page)
}

// PageFromCtx extracts the admin page name from the context.
// Returns an empty string if absent.
func PageFromCtx(ctx context.Context) string {
	p, _ := ctx.Value(pageKey).(string)
	return p
}
