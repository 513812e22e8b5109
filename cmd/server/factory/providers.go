package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/catalog"
	"github.com/TestimonialCarousel/internal/infra/queue"
	"github.com/TestimonialCarousel/internal/infra/render"
	"github.com/TestimonialCarousel/internal/infra/repository"
	"github.com/TestimonialCarousel/pkg/config"
	"github.com/TestimonialCarousel/pkg/logging"
)

// NewMongoRepository creates the item repository. It returns nil when the
// catalog does not live in MongoDB. An empty collection is seeded with the
// built-in testimonials.
func NewMongoRepository(client *mongo.Client, cfg *config.Config) (*repository.MongoRepository, error) {
	if client == nil {
		return nil, nil
	}
	if cfg.MongoDBName == "" {
		return nil, errors.New("mongo database name not configured")
	}
	if cfg.MongoColl == "" {
		return nil, errors.New("mongo collection name not configured")
	}

	repo, err := repository.NewMongoRepository(client, cfg.MongoDBName, cfg.MongoColl)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	seeded, err := repo.Seed(ctx, catalog.DefaultItems())
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		slog.Info("Seeded empty catalog collection", "collection", cfg.MongoColl)
	}
	return repo, nil
}

// NewCatalogSource picks the catalog source named by CATALOG_SOURCE.
func NewCatalogSource(cfg *config.Config, repo *repository.MongoRepository) (domain.CatalogSource, error) {
	switch cfg.CatalogSource {
	case "file":
		if cfg.CatalogFilePath == "" {
			return nil, errors.New("catalog file path not configured")
		}
		return catalog.NewFileSource(cfg.CatalogFilePath), nil
	case "http":
		if cfg.CatalogURL == "" {
			return nil, errors.New("catalog URL not configured")
		}
		return catalog.NewHTTPSource(cfg.CatalogURL), nil
	case "mongo":
		if repo == nil {
			return nil, errors.New("mongo repository is nil")
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown catalog source: %q (must be file, http or mongo)", cfg.CatalogSource)
	}
}

// NewItemWriter returns the store added and removed items are persisted
// to, or nil when items only live in memory.
func NewItemWriter(repo *repository.MongoRepository) domain.ItemWriter {
	if repo == nil {
		return nil
	}
	return repo
}

// NewRenderer logs every frame and, when Kafka is enabled, publishes it.
func NewRenderer(producer *queue.KafkaProducer) domain.Renderer {
	renderers := []domain.Renderer{render.NewLogRenderer(slog.New(slog.NewJSONHandler(os.Stdout, nil)))}
	if producer != nil {
		renderers = append(renderers, render.NewPublishingRenderer(producer, logging.NewErrorSampler(10)))
	}
	return render.NewFanout(renderers...)
}
