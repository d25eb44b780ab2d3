package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"rose-booking/internal/logger"
)

// MessageHandler processes one event; an error is logged and the message skipped.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewConsumer reads the given topics as part of groupID.
func NewConsumer(brokers []string, topics []string, groupID string, logger *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, logger: logger}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("KAFKA", "consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.logger.Error("KAFKA", fmt.Sprintf("error reading message: %v", err))
			continue
		}
		if err := handler(ctx, msg); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("failed to handle %s@%d: %v", msg.Topic, msg.Offset, err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
