package ctxutil

import (
	"context"
	"testing"
)

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestWithPage_And_PageFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithPage(context.Background(), "mentions")
	if got := PageFromCtx(ctx); got != "mentions" {
		t.Fatalf("expected mentions, got %q", got)
	}
	if got := PageFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestContextKeys_DoNotCollide(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req")
	ctx = WithPage(ctx, "groups")

	if RequestIDFromCtx(ctx) != "req" || PageFromCtx(ctx) != "groups" {
		t.Fatal("values must be independent")
	}
}
