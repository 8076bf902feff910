package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/usecase/shared"
	"medrecords-gateway/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		StartSweepers,
	),
)

// StartSweepers runs the idempotency and rate-limit sweeps off the request path.
func StartSweepers(lc fx.Lifecycle, cfg config.Config, store shared.IdempotencyStore, limiter shared.RateLimiter, clk clock.Clock, logger *slog.Logger) {
	ttl := cfg.Webhook.IdempotencyTTL
	sweepers := []*worker.Sweeper{
		worker.NewSweeper("idempotency",
			func(ctx context.Context, now time.Time) (int64, error) {
				return store.Sweep(ctx, now.Add(-ttl))
			},
			cfg.Webhook.SweepInterval, clk, logger),
		worker.NewSweeper("rate_limit", limiter.Sweep, cfg.Webhook.RateSweepInterval, clk, logger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, len(sweepers))

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			for _, s := range sweepers {
				go func(s *worker.Sweeper) {
					defer func() { done <- struct{}{} }()
					s.Start(ctx)
				}(s)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for range sweepers {
				select {
				case <-done:
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			}
			return nil
		},
	})
}
