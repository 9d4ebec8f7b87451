package entities

import "time"

// Subscription is one live registration with the notification provider.
// A row's existence implies the provider is expected to hold a matching
// live subscription; SubscriptionID is the provider-facing key and is
// unique across all rows.
type Subscription struct {
	ID             uint       `gorm:"primaryKey"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	LastUpdated    *time.Time `gorm:"column:last_updated"`
	Domain         string     `gorm:"not null"`
	Model          string     `gorm:"not null"`
	Expires        time.Time  `gorm:"not null;index"`
	SubscriptionID string     `gorm:"column:subscription_id;not null;uniqueIndex"`
	PostURL        *string    `gorm:"column:post_url"`
	User           *string    `gorm:"column:user"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
