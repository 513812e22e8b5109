// Package factory provides dependency injection constructors for infrastructure components.
package factory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/TestimonialCarousel/internal/infra/queue"
	"github.com/TestimonialCarousel/internal/timing"
	"github.com/TestimonialCarousel/pkg/config"
)

// NewEngine creates the wall-clock loop every carousel operation runs on.
func NewEngine() *timing.LoopEngine {
	engine := timing.NewLoopEngine()
	engine.AcceptHook(timing.NewLogHook(nil))
	return engine
}

// NewMongoClient creates a MongoDB client with lifecycle management.
// It returns nil when the catalog does not live in MongoDB.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if !cfg.MongoEnabled() {
		return nil, nil
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo URI not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

// NewFramesProducer creates the producer frames are published with.
// It returns nil when Kafka is disabled.
func NewFramesProducer(cfg *config.Config, lc fx.Lifecycle) (*queue.KafkaProducer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	if cfg.KafkaFramesTopic == "" {
		return nil, errors.New("kafka frames topic not configured")
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaFramesTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

// NewDLQProducer creates a Kafka producer for the Dead Letter Queue.
func NewDLQProducer(cfg *config.Config, lc fx.Lifecycle) (*queue.KafkaProducer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	if cfg.KafkaDLQTopic == "" {
		return nil, errors.New("kafka DLQ topic not configured")
	}

	producer := queue.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaDLQTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

// NewKafkaConsumer creates the command consumer with DLQ support. The
// consumer is closed by the CommandSyncService that owns it.
func NewKafkaConsumer(cfg *config.Config, dlqProducer *queue.KafkaProducer) (*queue.KafkaConsumer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	if cfg.KafkaCommandsTopic == "" {
		return nil, errors.New("kafka commands topic not configured")
	}
	if dlqProducer == nil {
		return nil, errors.New("kafka DLQ producer is nil")
	}
	if cfg.KafkaGroupID == "" {
		return nil, errors.New("kafka consumer group not configured")
	}

	return queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaCommandsTopic, cfg.KafkaGroupID, dlqProducer), nil
}
