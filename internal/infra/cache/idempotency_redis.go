package cache

import (
	"context"
	"time"

	"medrecords-gateway/internal/infra"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "webhook:idem:"

// RedisIdempotencyStore shares replay state across instances. Entries expire by TTL,
// so Sweep has nothing to do.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisIdempotencyStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, idempotencyKeyPrefix+key).Result()
	if err != nil {
		return false, infra.WrapRepoErr("failed to look up idempotency key", err)
	}
	return n == 1, nil
}

// SET NX is atomic across every instance sharing the Redis server.
func (s *RedisIdempotencyStore) PutIfAbsent(ctx context.Context, key string, processedAt time.Time) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, processedAt.UnixMilli(), s.ttl).Result()
	if err != nil {
		return false, infra.WrapRepoErr("failed to set idempotency key", err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Sweep(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
