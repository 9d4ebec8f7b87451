package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/deps"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
	suberrors "github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/errors"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, sub *entities.Subscription) error {
	result := r.db.WithContext(ctx).Create(sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", suberrors.ErrAlreadyExists, sub.SubscriptionID)
		}
		return fmt.Errorf("%w: %w", suberrors.ErrPersistence, result.Error)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, subscriptionID string) error {
	result := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Delete(&entities.Subscription{})

	if result.Error != nil {
		return fmt.Errorf("%w: %w", suberrors.ErrPersistence, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", suberrors.ErrNotFound, subscriptionID)
	}

	return nil
}

func (r *Repository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*entities.Subscription, error) {
	var sub entities.Subscription
	result := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		First(&sub)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", suberrors.ErrNotFound, subscriptionID)
		}
		return nil, fmt.Errorf("%w: %w", suberrors.ErrPersistence, result.Error)
	}

	return &sub, nil
}

// GetExpiring uses a closed interval: a row expiring exactly at the
// threshold is a renewal candidate.
func (r *Repository) GetExpiring(ctx context.Context, threshold time.Time) ([]entities.Subscription, error) {
	var subscriptions []entities.Subscription
	result := r.db.WithContext(ctx).
		Where("expires <= ?", threshold).
		Order("expires ASC").
		Find(&subscriptions)

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %w", suberrors.ErrPersistence, result.Error)
	}

	return subscriptions, nil
}

// UpdateRenewal rewrites the provider identifier, expiry and
// last-updated timestamp in a single statement keyed by the identifier
// the row held before the renewal.
func (r *Repository) UpdateRenewal(ctx context.Context, previousID, newID string, expires, lastUpdated time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("subscription_id = ?", previousID).
		Updates(map[string]any{
			"subscription_id": newID,
			"expires":         expires,
			"last_updated":    lastUpdated,
		})

	if result.Error != nil {
		return fmt.Errorf("%w: %w", suberrors.ErrPersistence, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", suberrors.ErrNotFound, previousID)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if !r.db.WithContext(ctx).Migrator().HasTable(&entities.Subscription{}) {
		return fmt.Errorf("%w: table %q does not exist", suberrors.ErrConfiguration, entities.Subscription{}.TableName())
	}
	return nil
}
