package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_BurstExhaustion(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow() {
		t.Error("first call should pass")
	}
	if limiter.Allow() {
		t.Error("expected allow to fail (exhausted tokens)")
	}
}

func TestLimiter_DefaultsOnBadInput(t *testing.T) {
	// Zero or negative settings fall back to 1 rps / burst 1 instead of a
	// limiter that never admits anything.
	limiter := NewLimiter(0, -1)

	if !limiter.Allow() {
		t.Error("expected one call allowed under fallback settings")
	}
}

func TestLimiter_WaitHonorsCancellation(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.Allow() // drain the only token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected error when context expires before a token is available")
	}
}
