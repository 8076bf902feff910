package shared

import (
	"context"
	"time"
)

//go:generate mockgen -source=stores.go -destination=../../../tests/mock/shared/stores_mock.go -package=sharedmock

// IdempotencyStore records processed webhook signing events.
// PutIfAbsent is the single atomic check-and-insert; implementations must
// guarantee that exactly one of N concurrent callers with the same key gets true.
type IdempotencyStore interface {
	Has(ctx context.Context, key string) (bool, error)
	PutIfAbsent(ctx context.Context, key string, processedAt time.Time) (bool, error)
	// Sweep removes entries processed before olderThan and returns how many were removed.
	Sweep(ctx context.Context, olderThan time.Time) (int64, error)
}

// RateLimiter is a sliding-window counter keyed by caller (source IP for webhooks).
type RateLimiter interface {
	Allow(ctx context.Context, key string, now time.Time) (RateDecision, error)
	// Sweep drops windows with no attempts inside the trailing window.
	Sweep(ctx context.Context, now time.Time) (int64, error)
}
