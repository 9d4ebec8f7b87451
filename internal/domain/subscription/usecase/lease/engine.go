package lease

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/config"
	"github.com/DallanL/nms-like-n-subscribe/internal/clock"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/consts"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
	suberrors "github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine drives the subscription lease protocol. The store is written
// before the provider is called on create, and read before the
// provider is called on renew; each step's success is a precondition
// for the next.
type Engine struct {
	repo     deps.SubscriptionRepository
	provider deps.ProviderClient
	events   deps.EventPublisher
	clock    clock.Clock
	logger   zerolog.Logger

	renewalInterval      time.Duration
	subscriptionDuration time.Duration
}

func NewEngine(
	repo deps.SubscriptionRepository,
	provider deps.ProviderClient,
	events deps.EventPublisher,
	clk clock.Clock,
	cfg *config.LeaseConfig,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		repo:                 repo,
		provider:             provider,
		events:               events,
		clock:                clk,
		logger:               logger,
		renewalInterval:      cfg.RenewalInterval,
		subscriptionDuration: cfg.SubscriptionDuration,
	}
}

func (e *Engine) Create(ctx context.Context, params deps.CreateSubscriptionParams) (*entities.Subscription, error) {
	if params.Domain == "" {
		return nil, suberrors.ErrInvalidDomain
	}
	if params.Model == "" {
		return nil, suberrors.ErrInvalidModel
	}
	if params.Expires.IsZero() {
		return nil, suberrors.ErrInvalidExpiry
	}

	// The caller may originate the identifier; otherwise a provisional
	// one holds the unique-constraint slot until the provider confirms.
	subscriptionID := params.SubscriptionID
	if subscriptionID == "" {
		subscriptionID = uuid.NewString()
	}

	sub := &entities.Subscription{
		Domain:         params.Domain,
		Model:          params.Model,
		Expires:        params.Expires.UTC(),
		SubscriptionID: subscriptionID,
		PostURL:        params.PostURL,
		User:           params.User,
	}

	if err := e.repo.Create(ctx, sub); err != nil {
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Str("domain", params.Domain).
			Msg("failed to insert subscription")
		return nil, err
	}

	confirmed, err := e.provider.CreateSubscription(ctx, deps.ProviderCreateRequest{
		Model:   params.Model,
		PostURL: params.PostURL,
		Expires: params.Expires,
		Domain:  params.Domain,
		User:    params.User,
	})
	if err != nil {
		return nil, e.compensateCreate(ctx, subscriptionID, params.Domain, err)
	}

	// The provider's confirmation always wins: rewrite the row when it
	// issued a different identifier or granted a different expiry. A
	// provider-trimmed lease must be stored or the sweep threshold is
	// computed against an expiry the provider never granted.
	if confirmed.SubscriptionID != subscriptionID || !confirmed.Expires.Equal(sub.Expires) {
		now := e.clock.Now()
		if err := e.repo.UpdateRenewal(ctx, subscriptionID, confirmed.SubscriptionID, confirmed.Expires, now); err != nil {
			e.logger.Error().Err(err).
				Str("subscription_id", subscriptionID).
				Str("provider_subscription_id", confirmed.SubscriptionID).
				Msg("provider confirmed registration but confirmation rewrite failed")
			return nil, fmt.Errorf("%w: provider holds %s but store holds %s: %w",
				suberrors.ErrInconsistency, confirmed.SubscriptionID, subscriptionID, err)
		}
		sub.SubscriptionID = confirmed.SubscriptionID
		sub.Expires = confirmed.Expires
		sub.LastUpdated = &now
	}

	e.publishEvent(ctx, consts.TopicSubscriptionCreated, sub)

	e.logger.Info().
		Str("subscription_id", sub.SubscriptionID).
		Str("domain", sub.Domain).
		Str("model", sub.Model).
		Time("expires", sub.Expires).
		Msg("subscription created")

	return sub, nil
}

// compensateCreate undoes the insert after a failed remote
// registration so the store never retains a row the provider does not
// hold. A failed undo leaves the store in the otherwise unreachable
// pending-create state and both causes are surfaced together.
func (e *Engine) compensateCreate(ctx context.Context, subscriptionID, domain string, remoteErr error) error {
	e.logger.Error().Err(remoteErr).
		Str("subscription_id", subscriptionID).
		Str("domain", domain).
		Msg("remote registration failed, compensating with row delete")

	// The remote call may have failed because the caller's context died,
	// so the delete runs detached from it or the row would leak.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := e.repo.Delete(cleanupCtx, subscriptionID); err != nil {
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Msg("compensating delete failed, manual reconciliation required")
		return fmt.Errorf("%w: compensation after failed registration did not complete: %w",
			suberrors.ErrInconsistency, errors.Join(remoteErr, err))
	}

	return fmt.Errorf("%w: %w", suberrors.ErrRemoteRegistration, remoteErr)
}

// ExpiringSubscriptions returns every subscription whose lease ends at
// or before now plus the renewal lead time.
func (e *Engine) ExpiringSubscriptions(ctx context.Context) ([]entities.Subscription, error) {
	threshold := e.clock.Now().Add(e.renewalInterval)
	return e.repo.GetExpiring(ctx, threshold)
}

func (e *Engine) Renew(ctx context.Context, subscriptionID string) (*entities.Subscription, error) {
	sub, err := e.repo.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Msg("renewal lookup failed")
		return nil, err
	}

	newExpires := e.clock.Now().Add(e.subscriptionDuration)

	confirmed, err := e.provider.CreateSubscription(ctx, deps.ProviderCreateRequest{
		Model:   sub.Model,
		PostURL: sub.PostURL,
		Expires: newExpires,
		Domain:  sub.Domain,
		User:    sub.User,
	})
	if err != nil {
		// Row left untouched, the next sweep retries.
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Str("domain", sub.Domain).
			Msg("remote renewal failed")
		return nil, fmt.Errorf("%w: %w", suberrors.ErrRemoteRegistration, err)
	}

	lastUpdated := e.clock.Now()
	if err := e.repo.UpdateRenewal(ctx, subscriptionID, confirmed.SubscriptionID, confirmed.Expires, lastUpdated); err != nil {
		// The provider holds the renewed lease but the store still has
		// the stale row.
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Str("provider_subscription_id", confirmed.SubscriptionID).
			Msg("provider renewed but local update failed, manual reconciliation required")
		return nil, fmt.Errorf("%w: provider renewed %s but local update failed: %w",
			suberrors.ErrInconsistency, subscriptionID, err)
	}

	sub.SubscriptionID = confirmed.SubscriptionID
	sub.Expires = confirmed.Expires
	sub.LastUpdated = &lastUpdated

	e.publishEvent(ctx, consts.TopicSubscriptionRenewed, sub)

	e.logger.Info().
		Str("subscription_id", sub.SubscriptionID).
		Str("domain", sub.Domain).
		Time("expires", sub.Expires).
		Msg("subscription renewed")

	return sub, nil
}

// Sweep renews every expiring subscription. Renewals run concurrently,
// one goroutine per subscription since each is keyed by a distinct
// identifier, and the sweep waits for all of them so consecutive
// sweeps never overlap.
func (e *Engine) Sweep(ctx context.Context) (int, int) {
	candidates, err := e.ExpiringSubscriptions(ctx)
	if err != nil {
		// Transient: no candidates this cycle, the next tick retries.
		e.logger.Error().Err(err).Msg("sweep could not fetch expiring subscriptions")
		return 0, 0
	}

	if len(candidates) == 0 {
		e.logger.Debug().Msg("no subscriptions need renewal")
		return 0, 0
	}

	e.logger.Info().
		Int("count", len(candidates)).
		Msg("renewing expiring subscriptions")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		renewed int
	)

	for _, candidate := range candidates {
		wg.Add(1)
		go func(subscriptionID string) {
			defer wg.Done()
			if _, err := e.Renew(ctx, subscriptionID); err != nil {
				return
			}
			mu.Lock()
			renewed++
			mu.Unlock()
		}(candidate.SubscriptionID)
	}
	wg.Wait()

	e.logger.Info().
		Int("candidates", len(candidates)).
		Int("renewed", renewed).
		Msg("sweep finished")

	return len(candidates), renewed
}

// Delete removes the local row only. The provider keeps its
// registration until it expires; remote cancellation is an operator
// action on the provider client, not part of the lease protocol.
func (e *Engine) Delete(ctx context.Context, subscriptionID string) error {
	sub, err := e.repo.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if err := e.repo.Delete(ctx, subscriptionID); err != nil {
		e.logger.Error().Err(err).
			Str("subscription_id", subscriptionID).
			Msg("failed to delete subscription")
		return err
	}

	e.publishEvent(ctx, consts.TopicSubscriptionDeleted, sub)

	e.logger.Info().
		Str("subscription_id", subscriptionID).
		Str("domain", sub.Domain).
		Msg("subscription deleted")

	return nil
}

// publishEvent is best-effort: a broker failure never fails the
// operation that triggered it.
func (e *Engine) publishEvent(ctx context.Context, eventType string, sub *entities.Subscription) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishLeaseEvent(ctx, eventType, sub, e.clock.Now()); err != nil {
		e.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("subscription_id", sub.SubscriptionID).
			Msg("failed to publish lease event")
	}
}
