package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*rateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRateLimiter(client, limit, window).(*rateLimiter)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	return l, mr
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 3, time.Minute)

	for i, wantRemaining := range []int{2, 1, 0} {
		allowed, remaining, err := l.Allow(ctx, "203.0.113.7")
		if err != nil {
			t.Fatalf("Allow() #%d error = %v", i, err)
		}
		if !allowed {
			t.Fatalf("Allow() #%d rejected within limit", i)
		}
		if remaining != wantRemaining {
			t.Errorf("Allow() #%d remaining = %d, want %d", i, remaining, wantRemaining)
		}
	}

	allowed, remaining, err := l.Allow(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if allowed {
		t.Error("fourth hit should be rejected")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 1, time.Minute)

	if ok, _, _ := l.Allow(ctx, "a"); !ok {
		t.Fatal("first hit for a should pass")
	}
	if ok, _, _ := l.Allow(ctx, "b"); !ok {
		t.Error("first hit for b should pass")
	}
	if ok, _, _ := l.Allow(ctx, "a"); ok {
		t.Error("second hit for a should be rejected")
	}
}

func TestRateLimiter_NewWindowResets(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 1, time.Minute)

	if ok, _, _ := l.Allow(ctx, "a"); !ok {
		t.Fatal("first hit should pass")
	}
	if ok, _, _ := l.Allow(ctx, "a"); ok {
		t.Fatal("second hit should be rejected")
	}

	next := l.now().Add(time.Minute)
	l.now = func() time.Time { return next }

	if ok, _, _ := l.Allow(ctx, "a"); !ok {
		t.Error("hit in the next window should pass")
	}
}

func TestRateLimiter_CountersExpire(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 5, time.Minute)

	if _, _, err := l.Allow(ctx, "a"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	key := rateLimitKey("a", l.now().Truncate(time.Minute))
	if !mr.Exists(key) {
		t.Fatalf("expected counter %q", key)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if mr.Exists(key) {
		t.Error("counter should expire with its window")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	l, mr := newTestLimiter(t, 0, time.Minute)

	for i := 0; i < 10; i++ {
		if ok, _, err := l.Allow(context.Background(), "a"); !ok || err != nil {
			t.Fatalf("Allow() = %v, %v", ok, err)
		}
	}
	if len(mr.Keys()) != 0 {
		t.Error("disabled limiter should not touch redis")
	}
}

func TestRateLimiter_RedisUnavailable(t *testing.T) {
	l, mr := newTestLimiter(t, 3, time.Minute)
	mr.Close()

	if _, _, err := l.Allow(context.Background(), "a"); err == nil {
		t.Error("expected error when redis is down")
	}
}

func TestRateLimiter_DefaultWindow(t *testing.T) {
	l := NewRateLimiter(goredis.NewClient(&goredis.Options{}), 1, 0)
	if l.Window() != time.Minute {
		t.Errorf("Window() = %v, want 1m", l.Window())
	}
}
