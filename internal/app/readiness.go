package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ReadinessWaiter blocks startup until the optional backends are reachable.
// A nil mongo client or an empty broker list skips that check.
type ReadinessWaiter struct {
	mongoClient *mongo.Client
	brokers     []string
	topics      []string
	interval    time.Duration
}

func NewReadinessWaiter(mongoClient *mongo.Client, brokers []string, topics ...string) *ReadinessWaiter {
	return &ReadinessWaiter{
		mongoClient: mongoClient,
		brokers:     brokers,
		topics:      topics,
		interval:    2 * time.Second,
	}
}

func (w *ReadinessWaiter) WaitForDependencies(ctx context.Context) error {
	if w.mongoClient != nil {
		if err := w.waitFor(ctx, "MongoDB", w.checkMongo); err != nil {
			return err
		}
	}
	if len(w.brokers) > 0 {
		if err := w.waitFor(ctx, "Kafka", w.checkKafka); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReadinessWaiter) waitFor(ctx context.Context, name string, check func(context.Context) error) error {
	slog.Info("Waiting for " + name + "...")
	// Only ctx bounds the wait.
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := check(ctx); err != nil {
				slog.Warn(name+" not ready yet", "error", err)
				continue
			}
			slog.Info(name + " is ready")
			return nil
		}
	}
}

func (w *ReadinessWaiter) checkMongo(ctx context.Context) error {
	return w.mongoClient.Ping(ctx, readpref.Primary())
}

func (w *ReadinessWaiter) checkKafka(ctx context.Context) error {
	// 1. Check TCP connection to brokers
	for _, broker := range w.brokers {
		conn, err := net.DialTimeout("tcp", broker, 2*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
		}
		_ = conn.Close()
	}

	// 2. Check that the topics exist, against the first broker
	conn, err := kafka.DialContext(ctx, "tcp", w.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	for _, topic := range w.topics {
		partitions, err := conn.ReadPartitions(topic)
		if err != nil {
			return fmt.Errorf("failed to read partitions for topic %s: %w", topic, err)
		}
		if len(partitions) == 0 {
			return fmt.Errorf("topic %s has no partitions", topic)
		}
	}
	return nil
}
