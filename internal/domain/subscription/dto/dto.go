package dto

import (
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
)

// CreateSubscriptionRequest is the admission payload for a new
// subscription. Expires is an absolute RFC 3339 timestamp.
type CreateSubscriptionRequest struct {
	Model   string  `json:"model"`
	Domain  string  `json:"domain"`
	PostURL *string `json:"post_url,omitempty"`
	Expires string  `json:"expires"`
	User    *string `json:"user,omitempty"`
}

// CreateSubscriptionResponse confirms a created subscription
type CreateSubscriptionResponse struct {
	Status         string `json:"status"`
	SubscriptionID string `json:"subscription_id"`
	Expires        string `json:"expires"`
}

// ErrorResponse carries a request failure reason
type ErrorResponse struct {
	Error string `json:"error"`
}

// LeaseEvent announces a subscription lifecycle change
type LeaseEvent struct {
	Type           string `json:"type"`
	SubscriptionID string `json:"subscription_id"`
	Domain         string `json:"domain"`
	Model          string `json:"model"`
	Expires        string `json:"expires"`
	Timestamp      int64  `json:"timestamp"`
}

// NewLeaseEvent builds a LeaseEvent from a stored subscription
func NewLeaseEvent(eventType string, sub *entities.Subscription, occurredAt time.Time) *LeaseEvent {
	return &LeaseEvent{
		Type:           eventType,
		SubscriptionID: sub.SubscriptionID,
		Domain:         sub.Domain,
		Model:          sub.Model,
		Expires:        sub.Expires.UTC().Format(time.RFC3339),
		Timestamp:      occurredAt.Unix(),
	}
}
