package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0xsj/overwatch-follows/internal/port/outbound/cache"
)

const (
	rateLimitKeyPrefix = "follows:ratelimit:"
	defaultWindow      = time.Minute
)

// rateLimiter implements cache.RateLimiter with one counter per key and
// window. Counters expire with their window.
type rateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit hits per key per window.
func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration) cache.RateLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	return &rateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *rateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}

	redisKey := rateLimitKey(key, l.now().Truncate(l.window))

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		return false, 0, nil
	}
	return true, l.limit - count, nil
}

func (l *rateLimiter) Window() time.Duration {
	return l.window
}

// Key helper

func rateLimitKey(key string, windowStart time.Time) string {
	return rateLimitKeyPrefix + key + ":" + strconv.FormatInt(windowStart.Unix(), 10)
}
