package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different domain has its own budget
	if err := limiter.Wait(ctx, "http://other.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_DomainsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Token for example.com is consumed
	if limiter.Allow("http://example.com/page") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Other domain still has its burst
	if !limiter.Allow("http://other.com") {
		t.Errorf("expected allow for other domain")
	}
}

func TestLimiter_SetDomainRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetDomainRate("slow.com", 0.1, 1)

	if !limiter.Allow("http://slow.com") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://slow.com") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("http://fast.com") {
		t.Errorf("other domain should pass")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 5)

	if err := limiter.Wait(context.Background(), "://invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
	if limiter.Allow("://invalid") {
		t.Errorf("expected allow to fail for invalid URL")
	}
}
