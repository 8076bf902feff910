package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/metrics"
)

// SweepFunc removes expired entries as of now and reports how many went.
type SweepFunc func(ctx context.Context, now time.Time) (int64, error)

// Sweeper runs a SweepFunc on a ticker. Failures and panics are logged and
// never propagate; the next tick simply tries again.
type Sweeper struct {
	name     string
	sweep    SweepFunc
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger
}

func NewSweeper(name string, sweep SweepFunc, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		name:     name,
		sweep:    sweep,
		interval: interval,
		clock:    clk,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started", "target", s.name, "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping", "target", s.name)
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("sweep failed", "target", s.name, "error", err)
			}
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) (removed int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(fmt.Sprintf("sweep %s panicked: %v", s.name, r))
		}
	}()

	removed, err = s.sweep(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		metrics.SweepRemoved.WithLabelValues(s.name).Add(float64(removed))
		s.logger.Debug("sweep completed", "target", s.name, "removed", removed)
	}
	return removed, nil
}
