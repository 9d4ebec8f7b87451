package scheduler

import (
	"context"

	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"scheduler",
	fx.Invoke(registerScheduler),
)

func registerScheduler(
	lc fx.Lifecycle,
	cfg *config.LeaseConfig,
	engine deps.LeaseEngine,
	log zerolog.Logger,
) {
	s := New(engine, cfg.SweepInterval, log)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				s.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
