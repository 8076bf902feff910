package ratelimit

import (
	"context"
	"sync"
	"time"

	"medrecords-gateway/internal/usecase/shared"
)

// MemoryLimiter keeps a sliding log of accepted attempts per key.
// Rejected attempts are not recorded, so capacity frees one slot at a time
// as the oldest accepted attempt leaves the window.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string][]time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (shared.RateDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attempts := prune(l.windows[key], now.Add(-l.window))

	if len(attempts) >= l.limit {
		l.windows[key] = attempts
		// a non-positive limit leaves nothing to wait for but a full window
		retryAfter := l.window
		if len(attempts) > 0 {
			retryAfter = attempts[0].Add(l.window).Sub(now)
		}
		return shared.RateDecision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
		}, nil
	}

	attempts = append(attempts, now)
	l.windows[key] = attempts
	return shared.RateDecision{
		Allowed:   true,
		Remaining: l.limit - len(attempts),
	}, nil
}

func (l *MemoryLimiter) Sweep(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	var removed int64
	for key, attempts := range l.windows {
		attempts = prune(attempts, cutoff)
		if len(attempts) == 0 {
			delete(l.windows, key)
			removed++
			continue
		}
		l.windows[key] = attempts
	}
	return removed, nil
}

// attempts are appended in order, so the survivors are a suffix.
func prune(attempts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(attempts) && !attempts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return attempts
	}
	return append([]time.Time(nil), attempts[i:]...)
}
