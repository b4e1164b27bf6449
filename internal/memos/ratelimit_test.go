package memos_test

import (
	"context"
	"testing"
	"time"

	"memos-mcp/internal/memos"
)

func TestRateLimiter(t *testing.T) {
	t.Run("full quota passes without delay", func(t *testing.T) {
		limiter := memos.NewRateLimiter(60)
		ctx := context.Background()

		start := time.Now()
		for i := 0; i < 60; i++ {
			if err := limiter.Acquire(ctx); err != nil {
				t.Fatalf("acquire %d failed: %v", i, err)
			}
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Errorf("quota-sized burst should not block, took %v", elapsed)
		}
	})

	t.Run("request beyond quota is delayed", func(t *testing.T) {
		limiter := memos.NewRateLimiter(60)
		ctx := context.Background()

		for i := 0; i < 60; i++ {
			if err := limiter.Acquire(ctx); err != nil {
				t.Fatalf("acquire %d failed: %v", i, err)
			}
		}

		// Bucket is empty; the 61st must wait for refill (1 token/s at 60/min).
		start := time.Now()
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("acquire beyond quota failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
			t.Errorf("request beyond quota should be delayed, took only %v", elapsed)
		}
	})

	t.Run("wait is bounded by context deadline", func(t *testing.T) {
		limiter := memos.NewRateLimiter(60)
		for i := 0; i < 60; i++ {
			limiter.Allow()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := limiter.Acquire(ctx); err == nil {
			t.Error("expected deadline error while waiting for capacity")
		}
	})

	t.Run("allow reports capacity without waiting", func(t *testing.T) {
		limiter := memos.NewRateLimiter(1)
		if !limiter.Allow() {
			t.Error("first request should be allowed")
		}
		if limiter.Allow() {
			t.Error("second request inside the window should be denied")
		}
	})
}
