package deps

import (
	"context"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
)

// SubscriptionRepository is the persistent store for subscription rows
type SubscriptionRepository interface {
	// Create inserts a new row; a duplicate provider identifier fails
	Create(ctx context.Context, sub *entities.Subscription) error

	// Delete removes the row with the given provider identifier
	Delete(ctx context.Context, subscriptionID string) error

	// GetBySubscriptionID returns the row with the given provider identifier
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*entities.Subscription, error)

	// GetExpiring returns every row with expires at or before threshold
	GetExpiring(ctx context.Context, threshold time.Time) ([]entities.Subscription, error)

	// UpdateRenewal rewrites identifier, expiry and last-updated in a single
	// statement, keyed by the identifier the row held before renewal
	UpdateRenewal(ctx context.Context, previousID, newID string, expires, lastUpdated time.Time) error

	// Ping verifies the store is reachable and the table exists
	Ping(ctx context.Context) error
}

// ProviderCreateRequest is the payload for registering a subscription
// with the notification provider. Renewal reuses the same call with a
// fresh expiry (create/replace semantics).
type ProviderCreateRequest struct {
	Model   string
	PostURL *string
	Expires time.Time
	Domain  string
	User    *string
}

// ProviderSubscription is the provider's confirmation of a registration.
// The returned identifier may differ from the one the caller requested.
type ProviderSubscription struct {
	SubscriptionID string
	Expires        time.Time
}

// ProviderClient talks to the external notification provider
type ProviderClient interface {
	CreateSubscription(ctx context.Context, req ProviderCreateRequest) (*ProviderSubscription, error)

	// DeleteSubscription cancels a subscription at the provider. Exposed
	// for operators; the lease engine's Delete is local bookkeeping only.
	DeleteSubscription(ctx context.Context, subscriptionID, domain string) error
}

// EventPublisher emits subscription lifecycle events. The caller
// supplies the event time so publishers never read the wall clock.
type EventPublisher interface {
	PublishLeaseEvent(ctx context.Context, eventType string, sub *entities.Subscription, occurredAt time.Time) error
	Close() error
}

// CreateSubscriptionParams are the inputs to LeaseEngine.Create.
// SubscriptionID is optional; when empty the engine assigns a
// provisional identifier before confirming with the provider.
type CreateSubscriptionParams struct {
	Domain         string
	Model          string
	Expires        time.Time
	SubscriptionID string
	PostURL        *string
	User           *string
}

// LeaseEngine owns the create/renew/delete protocol and keeps the store
// consistent with the remote provider
type LeaseEngine interface {
	// Create registers a new subscription: store insert first, then the
	// remote call, compensating with a row delete if the provider fails
	Create(ctx context.Context, params CreateSubscriptionParams) (*entities.Subscription, error)

	// ExpiringSubscriptions returns renewal candidates as of now
	ExpiringSubscriptions(ctx context.Context) ([]entities.Subscription, error)

	// Renew extends the lease of one subscription; the identifier the
	// provider returns always wins over the stored one
	Renew(ctx context.Context, subscriptionID string) (*entities.Subscription, error)

	// Sweep renews every expiring subscription and reports how many
	// candidates were found and how many renewed successfully
	Sweep(ctx context.Context) (candidates, renewed int)

	// Delete removes the local row; the provider is not contacted
	Delete(ctx context.Context, subscriptionID string) error
}
