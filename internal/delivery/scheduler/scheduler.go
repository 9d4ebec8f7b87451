package scheduler

import (
	"context"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/rs/zerolog"
)

// Scheduler drives the renewal sweep on a fixed cadence. It runs
// unattended: sweep outcomes are logged, never returned to a caller.
type Scheduler struct {
	engine   deps.LeaseEngine
	interval time.Duration
	logger   zerolog.Logger
}

func New(engine deps.LeaseEngine, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until ctx is
// cancelled. Sweep waits for its renewals, so ticks never overlap.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("renewal scheduler started")

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("renewal scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	candidates, renewed := s.engine.Sweep(sweepCtx)
	if candidates != renewed {
		s.logger.Warn().
			Int("candidates", candidates).
			Int("renewed", renewed).
			Msg("some renewals failed, retrying next sweep")
	}
}
