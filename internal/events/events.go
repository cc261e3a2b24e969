// Package events publishes generation events to Kafka for downstream
// consumers. Publishing is optional and best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// GenerationEvent is emitted after each successful content generation.
type GenerationEvent struct {
	Username  string    `json:"username"`
	Query     string    `json:"query"`
	Tone      string    `json:"tone"`
	Format    string    `json:"format"`
	Platform  string    `json:"platform"`
	Cited     int       `json:"cited"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher writes generation events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 100 * time.Millisecond,
		},
	}, nil
}

// Publish sends one event. Failures are returned for the caller to log;
// they never abort a generation.
func (p *Publisher) Publish(ctx context.Context, event GenerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Username),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
