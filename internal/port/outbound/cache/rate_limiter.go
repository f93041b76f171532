package cache

import (
	"context"
	"time"
)

// RateLimiter counts requests per key within a fixed window.
type RateLimiter interface {
	// Allow records a hit for key and reports whether it is within limit.
	// remaining is how many further hits the window allows.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)

	// Window returns the length of the counting window.
	Window() time.Duration
}
