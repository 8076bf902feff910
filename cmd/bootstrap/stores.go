package bootstrap

import (
	"log/slog"

	"medrecords-gateway/internal/infra/cache"
	"medrecords-gateway/internal/infra/ratelimit"
	"medrecords-gateway/internal/infra/repository"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var StoresModule = fx.Module("stores",
	fx.Provide(
		NewStores,
	),
)

type StoresParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
}

type StoresResult struct {
	fx.Out

	Idempotency shared.IdempotencyStore
	RateLimiter shared.RateLimiter
}

// NewStores selects the replay and rate-limit backends. Only redis shares both
// across instances; postgres shares replay state but limits per instance.
func NewStores(p StoresParams) (StoresResult, error) {
	wh := p.Config.Webhook

	switch p.Config.Store.Backend {
	case config.StoreBackendRedis:
		client, err := NewRedisClient(p.Lifecycle, p.Config.Redis)
		if err != nil {
			return StoresResult{}, err
		}
		p.Logger.Info("using redis webhook stores", "addr", p.Config.Redis.Addr)
		return StoresResult{
			Idempotency: cache.NewRedisIdempotencyStore(client, wh.IdempotencyTTL),
			RateLimiter: ratelimit.NewRedisLimiter(client, wh.RateLimit, wh.RateWindow),
		}, nil

	case config.StoreBackendPostgres:
		p.Logger.Info("using postgres idempotency store with in-memory rate limiter")
		return StoresResult{
			Idempotency: repository.NewIdempotencyRepository(p.Pool),
			RateLimiter: ratelimit.NewMemoryLimiter(wh.RateLimit, wh.RateWindow),
		}, nil

	default:
		p.Logger.Warn("using in-memory webhook stores; replay protection is per instance")
		return StoresResult{
			Idempotency: cache.NewMemoryIdempotencyStore(),
			RateLimiter: ratelimit.NewMemoryLimiter(wh.RateLimit, wh.RateWindow),
		}, nil
	}
}
