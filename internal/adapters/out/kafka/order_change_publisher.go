// Package kafka mirrors order change snapshots to a Kafka topic for
// consumers outside this process.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"dispatch/internal/core/ports"
)

// OrderChangePublisher writes order snapshots to the order-changed topic.
// Messages are keyed by order ID so each order's changes land in one
// partition and stay ordered.
type OrderChangePublisher struct {
	writer *kafka.Writer
}

// NewOrderChangePublisher creates a publisher for the given brokers and topic.
func NewOrderChangePublisher(brokers []string, topic string) *OrderChangePublisher {
	return &OrderChangePublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// PublishOrderChanged sends one snapshot as a JSON message.
func (p *OrderChangePublisher) PublishOrderChanged(ctx context.Context, snapshot ports.OrderSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal order snapshot: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(snapshot.OrderID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write order-changed message: %w", err)
	}

	return nil
}

// Close flushes buffered messages and releases the writer.
func (p *OrderChangePublisher) Close() error {
	return p.writer.Close()
}
