package subscription

import (
	"context"

	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/DallanL/nms-like-n-subscribe/internal/clock"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/repository/http_clients/provider"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/repository/postgres"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/usecase/lease"
	kafkaInfra "github.com/DallanL/nms-like-n-subscribe/internal/infrastructure/kafka"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module(
	"subscription",
	fx.Provide(
		NewRepository,
		NewProviderClient,
		NewEventPublisher,
		NewLeaseEngine,
	),
	fx.Invoke(verifyStore),
)

func NewRepository(db *gorm.DB) deps.SubscriptionRepository {
	return postgres.NewRepository(db)
}

func NewProviderClient(cfg *config.ProviderConfig, logger zerolog.Logger) deps.ProviderClient {
	return provider.NewClient(cfg, logger)
}

func NewEventPublisher(adapter *kafkaInfra.ProducerAdapter) deps.EventPublisher {
	return adapter
}

func NewLeaseEngine(
	repo deps.SubscriptionRepository,
	providerClient deps.ProviderClient,
	events deps.EventPublisher,
	clk clock.Clock,
	cfg *config.LeaseConfig,
	logger zerolog.Logger,
) deps.LeaseEngine {
	return lease.NewEngine(repo, providerClient, events, clk, cfg, logger)
}

// verifyStore fails startup when the subscriptions table is missing,
// before the scheduler or the admission surface can touch it.
func verifyStore(repo deps.SubscriptionRepository, log zerolog.Logger) error {
	if err := repo.Ping(context.Background()); err != nil {
		log.Error().Err(err).Msg("subscription store verification failed")
		return err
	}
	return nil
}
