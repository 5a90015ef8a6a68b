package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestActorIsTrimmed(t *testing.T) {
	ctx := WithActor(context.Background(), "  admin ")
	if got := Actor(ctx); got != "admin" {
		t.Fatalf("expected admin, got %q", got)
	}
	if got := Actor(context.Background()); got != "" {
		t.Fatalf("expected empty actor, got %q", got)
	}
}
