package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"rose-booking/internal/logger"
)

// Publisher sends a single keyed message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

type Producer struct {
	Writer *kafka.Writer
	logger *logger.Logger
}

// NewProducer builds one writer for all topics; the topic is set per message.
func NewProducer(brokers []string, logger *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{Writer: writer, logger: logger}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	p.logger.LogKafka("PUBLISH", topic, "key="+key)
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopPublisher is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, []byte) error { return nil }

// PublishJSON marshals event and publishes it. Failures are logged and dropped:
// events go out after the database commit and never undo it.
func PublishJSON(ctx context.Context, p Publisher, log *logger.Logger, topic, key string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("KAFKA", fmt.Sprintf("failed to encode event for %s: %v", topic, err))
		return
	}
	if err := p.Publish(ctx, topic, key, payload); err != nil {
		log.Warn("KAFKA", err.Error())
	}
}
