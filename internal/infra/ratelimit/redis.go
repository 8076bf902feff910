package ratelimit

import (
	"context"
	"strconv"
	"time"

	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "webhook:rate:"

// Same semantics as MemoryLimiter: prune, count, then record only when allowed.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, 0, tonumber(oldest[2]) + window - now}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1, 0}
`)

type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, now time.Time) (shared.RateDecision, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{rateKeyPrefix + key},
		nowMs, l.window.Milliseconds(), l.limit, member,
	).Int64Slice()
	if err != nil {
		return shared.RateDecision{}, infra.WrapRepoErr("failed to evaluate rate limit", err)
	}
	if len(res) != 3 {
		return shared.RateDecision{}, infra.WrapRepoErr("unexpected rate limit reply", nil)
	}

	return shared.RateDecision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// Keys carry a PEXPIRE of one window.
func (l *RedisLimiter) Sweep(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
