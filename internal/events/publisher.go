package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blekas10/shopnatural-checkout/internal/checkout"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const orderSubmittedTopic = "checkout-orders"

// KafkaPublisher pushes checkout lifecycle events to the platform bus so the
// order and notification services can react without polling.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderSubmittedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

func (p *KafkaPublisher) PublishOrderSubmitted(ctx context.Context, event checkout.OrderSubmittedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	body, err := json.Marshal(envelope{
		EventID:   uuid.New().String(),
		EventType: "checkout.order_submitted",
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: body,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
