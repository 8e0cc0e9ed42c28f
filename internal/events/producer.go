// Package events publishes storefront events for operator tooling. The
// checkout handoff itself is a deep link with no delivery confirmation, so
// the event stream is strictly best-effort.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// OrderRequested records that a cart was handed to the messaging channel.
type OrderRequested struct {
	SessionID     string            `json:"session_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Items         []domain.CartItem `json:"items"`
	Total         string            `json:"total"`
	RequestedAt   time.Time         `json:"requested_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

func (p *Producer) PublishOrderRequested(ctx context.Context, event OrderRequested) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: data,
		Time:  event.RequestedAt,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
