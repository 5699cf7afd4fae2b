package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a process-local fixed-window limiter.  It is used
// when Redis is unreachable at startup and by tests.  Counters are
// per-process, so limits are only approximate when running more than
// one instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memWindow

	// Now is the clock; tests replace it.
	Now func() time.Time
}

type memWindow struct {
	count int
	start time.Time
}

// NewMemoryLimiter returns an empty in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*memWindow),
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Allow consumes one unit from the window for key.  The counter
// resets to a fresh window once the previous one has fully elapsed.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &memWindow{start: now}
		l.windows[key] = w
	}
	w.count++

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   w.count <= limit,
		Remaining: remaining,
		ResetAt:   w.start.Add(window),
	}, nil
}
