package mocks

import (
	"context"
	"sync"
	"time"
)

// --- RateLimiter Mock ---

// RateLimiter is a mock implementation of cache.RateLimiter that counts
// hits per key without expiring them.
type RateLimiter struct {
	mu sync.Mutex

	Limit  int
	window time.Duration
	hits   map[string]int

	Calls struct {
		Allow int
	}

	Errors struct {
		Allow error
	}
}

// NewRateLimiter creates a mock allowing limit hits per key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		Limit:  limit,
		window: window,
		hits:   make(map[string]int),
	}
}

func (m *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Allow++

	if m.Errors.Allow != nil {
		return false, 0, m.Errors.Allow
	}

	m.hits[key]++
	if m.hits[key] > m.Limit {
		return false, 0, nil
	}
	return true, m.Limit - m.hits[key], nil
}

func (m *RateLimiter) Window() time.Duration {
	return m.window
}

// Hits returns how many times key was counted.
func (m *RateLimiter) Hits(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[key]
}
