package kafka

import (
	"context"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/dto"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/entities"
)

// ProducerAdapter publishes lease lifecycle events, keyed by provider
// subscription identifier so renewals of one subscription stay ordered.
type ProducerAdapter struct {
	producer *KafkaProducer
}

func NewProducerAdapter(producer *KafkaProducer) *ProducerAdapter {
	return &ProducerAdapter{producer: producer}
}

func (a *ProducerAdapter) PublishLeaseEvent(
	ctx context.Context,
	eventType string,
	sub *entities.Subscription,
	occurredAt time.Time,
) error {
	event := dto.NewLeaseEvent(eventType, sub, occurredAt)
	return a.producer.SendToTopic(ctx, eventType, sub.SubscriptionID, event)
}

func (a *ProducerAdapter) Close() error {
	return a.producer.Close()
}
