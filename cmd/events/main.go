// Command events tails the service's domain event topics and logs each event.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"rose-booking/internal/config"
	"rose-booking/internal/kafka"
	"rose-booking/internal/logger"
)

func main() {
	group := flag.String("group", "rose-events-tail", "kafka consumer group id")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logger.NewLogger("rose-events", cfg.Log.Dir, cfg.Log.Level)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.AllTopics(), *group, logger)
	defer consumer.Close()

	err := consumer.Start(ctx, func(ctx context.Context, msg kafkago.Message) error {
		logger.LogKafka("RECEIVE", msg.Topic, fmt.Sprintf("key=%s %s", msg.Key, msg.Value))
		return nil
	})
	if err != nil {
		logger.Error("KAFKA", err.Error())
	}
}
