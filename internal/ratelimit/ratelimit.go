// Package ratelimit implements fixed-window counters for
// administrative actions.  The primary store is Redis, where the
// increment-with-expiry runs as a single Lua script so concurrent
// requests on the same key never lose updates.  A mutex-guarded
// in-memory store backs local development and tests.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of one consume attempt.  Being over
// the limit is a normal result, not an error; callers translate it
// into an HTTP 429 with the remaining quota and reset time.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter checks and consumes one unit from a fixed window counter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// windowScript atomically increments the counter and arms the window
// TTL on first hit.  The PTTL<0 branch repairs keys that lost their
// expiry (e.g. after a Redis flush mid-window).
var windowScript = redis.NewScript(`
    local count = redis.call('INCR', KEYS[1])
    if count == 1 then
        redis.call('PEXPIRE', KEYS[1], ARGV[1])
    end
    local ttl = redis.call('PTTL', KEYS[1])
    if ttl < 0 then
        redis.call('PEXPIRE', KEYS[1], ARGV[1])
        ttl = tonumber(ARGV[1])
    end
    return { count, ttl }
`)

// RedisLimiter is the production Limiter backed by a shared Redis.
type RedisLimiter struct {
	rdb *redis.Client
}

// NewRedisLimiter wraps an existing Redis client.
func NewRedisLimiter(rdb *redis.Client) *RedisLimiter { return &RedisLimiter{rdb: rdb} }

// Allow consumes one unit from the window for key.  Redis errors are
// returned to the caller, which decides whether to fail open.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	vals, err := windowScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil || len(vals) != 2 {
		return Result{Allowed: true}, err
	}
	count, ttlMs := vals[0], vals[1]
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(limit),
		Remaining: int(remaining),
		ResetAt:   time.Now().UTC().Add(time.Duration(ttlMs) * time.Millisecond),
	}, nil
}
