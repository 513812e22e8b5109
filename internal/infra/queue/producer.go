package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/TestimonialCarousel/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// FrameMessage is the wire form of a frame. Items travel by id only.
type FrameMessage struct {
	ID         string           `json:"id"`
	Carousel   string           `json:"carousel"`
	Stage      domain.Stage     `json:"stage"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	ItemIDs    []string         `json:"item_ids"`
	Direction  domain.Direction `json:"direction"`
	Trigger    domain.Trigger   `json:"trigger"`
	AtMillis   int64            `json:"at_ms"`
}

func NewFrameMessage(f domain.Frame) FrameMessage {
	return FrameMessage{
		ID:         f.ID,
		Carousel:   f.Carousel,
		Stage:      f.Stage,
		Page:       f.Page,
		TotalPages: f.TotalPages,
		ItemIDs:    f.ItemIDs(),
		Direction:  f.Direction,
		Trigger:    f.Trigger,
		AtMillis:   f.At.Milliseconds(),
	}
}

// KafkaProducer publishes frames and commands to a single topic.
type KafkaProducer struct {
	writer messageWriter
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash balancer keeps one carousel's frames on one partition
		BatchTimeout: 10 * time.Millisecond,
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic)
	return &KafkaProducer{writer: w, topic: topic}
}

// Publish implements domain.FramePublisher. Frames are keyed by carousel
// name so that consumers see them in order.
func (p *KafkaProducer) Publish(ctx context.Context, frame domain.Frame) error {
	payload, err := json.Marshal(NewFrameMessage(frame))
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(frame.Carousel),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	slog.Debug("Published frame to Kafka", "topic", p.topic, "stage", frame.Stage, "page", frame.Page)
	return nil
}

// PublishCommand implements domain.CommandPublisher.
func (p *KafkaProducer) PublishCommand(ctx context.Context, cmd *domain.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(cmd.Op),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "topic", p.topic, "error", err)
		return err
	}

	slog.Debug("Published command to Kafka", "topic", p.topic, "op", cmd.Op, "id", cmd.ID)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
