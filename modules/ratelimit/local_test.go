package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLocalLimiter_Allow(t *testing.T) {
	limiter := NewLocalLimiter(Config{RequestsPerWindow: 3, WindowSize: time.Minute})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "client")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if result.Remaining != 3-i-1 {
			t.Errorf("request %d: remaining = %d, want %d", i+1, result.Remaining, 3-i-1)
		}
	}

	result, err := limiter.Allow(ctx, "client")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if result.Allowed {
		t.Fatal("4th request should be denied")
	}
	if result.RetryAfter <= 0 || result.RetryAfter > 20*time.Second {
		t.Errorf("RetryAfter = %v, want (0, 20s]", result.RetryAfter)
	}

	now = now.Add(21 * time.Second)
	result, err = limiter.Allow(ctx, "client")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !result.Allowed {
		t.Error("request after refill should be allowed")
	}
}

func TestLocalLimiter_SeparateKeys(t *testing.T) {
	limiter := NewLocalLimiter(Config{RequestsPerWindow: 1, WindowSize: time.Minute})
	ctx := context.Background()

	first, _ := limiter.Allow(ctx, "a")
	second, _ := limiter.Allow(ctx, "b")
	third, _ := limiter.Allow(ctx, "a")

	if !first.Allowed || !second.Allowed {
		t.Error("first request per key should be allowed")
	}
	if third.Allowed {
		t.Error("second request for key a should be denied")
	}
}

func TestLocalLimiter_Sweep(t *testing.T) {
	limiter := NewLocalLimiter(Config{RequestsPerWindow: 1, WindowSize: time.Minute})
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.Allow(context.Background(), "idle")
	limiter.sweep(now.Add(2 * time.Minute))

	if len(limiter.buckets) != 0 {
		t.Errorf("len(buckets) = %d after sweep, want 0", len(limiter.buckets))
	}
	if err := limiter.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
