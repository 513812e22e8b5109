package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/metrics"
)

// LoadCatalog loads the items of src, recording duration and failures.
func LoadCatalog(ctx context.Context, src domain.CatalogSource) ([]domain.Item, error) {
	ctx, span := startSpan(ctx, "load_catalog")
	defer span.End()
	span.SetAttributes(attribute.String("source", src.Name()))

	start := time.Now()
	items, err := src.Load(ctx)
	metrics.CatalogLoadDuration.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.CatalogLoadErrors.WithLabelValues(src.Name()).Inc()
		slog.Error("Failed to load catalog", "source", src.Name(), "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}
