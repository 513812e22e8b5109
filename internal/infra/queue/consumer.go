package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/metrics"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer reads carousel commands. Commands the handler rejects are
// forwarded to the DLQ producer.
type KafkaConsumer struct {
	reader      messageReader
	dlqProducer domain.CommandPublisher
}

func NewKafkaConsumer(brokers []string, topic string, groupID string, dlqProducer domain.CommandPublisher) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	slog.Info("Kafka Consumer initialized", "brokers", brokers, "topic", topic, "group", groupID)
	return &KafkaConsumer{
		reader:      r,
		dlqProducer: dlqProducer,
	}
}

type CommandHandler func(ctx context.Context, cmd *domain.Command) error

// Start blocks until ctx is cancelled or the reader fails.
func (c *KafkaConsumer) Start(ctx context.Context, handler CommandHandler) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("Error reading kafka message", "error", err)
			}
			return
		}
		c.handleMessage(ctx, m, handler)
	}
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, m kafka.Message, handler CommandHandler) {
	var cmd domain.Command
	if err := json.Unmarshal(m.Value, &cmd); err != nil {
		slog.Error("Error unmarshaling command", "offset", m.Offset, "error", err)
		metrics.CommandsProcessed.WithLabelValues("unknown", "invalid").Inc()
		return
	}

	slog.Debug("Received command from Kafka", "op", cmd.Op, "partition", m.Partition)

	if err := handler(ctx, &cmd); err != nil {
		slog.Error("Error handling command", "op", cmd.Op, "id", cmd.ID, "error", err)
		metrics.CommandsProcessed.WithLabelValues(string(cmd.Op), "failed").Inc()

		if c.dlqProducer != nil {
			slog.Info("Publishing failed command to DLQ", "op", cmd.Op, "id", cmd.ID)
			if dlqErr := c.dlqProducer.PublishCommand(ctx, &cmd); dlqErr != nil {
				slog.Error("Failed to publish to DLQ", "op", cmd.Op, "error", dlqErr)
			} else {
				metrics.DLQMessagesPublished.Inc()
			}
		}
		return
	}

	metrics.CommandsProcessed.WithLabelValues(string(cmd.Op), "ok").Inc()
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
