package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TestimonialCarousel/internal/app"
	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/catalog"
	"github.com/TestimonialCarousel/internal/infra/metrics"
	"github.com/TestimonialCarousel/internal/infra/queue"
	"github.com/TestimonialCarousel/internal/timing"
	transport "github.com/TestimonialCarousel/internal/transport/http"
	"github.com/TestimonialCarousel/pkg/config"
)

// NewCarouselConfig validates the carousel settings.
func NewCarouselConfig(cfg *config.Config) (carousel.Config, error) {
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return carousel.Config{}, fmt.Errorf("invalid page size: %d (must be 1-100)", cfg.PageSize)
	}
	if cfg.ExitDuration < 0 || cfg.EnterDuration < 0 {
		return carousel.Config{}, errors.New("animation durations must not be negative")
	}
	if cfg.AutoPlayPeriod <= 0 {
		return carousel.Config{}, fmt.Errorf("invalid autoplay period: %s", cfg.AutoPlayPeriod)
	}
	if cfg.AutoPlayGrace < 0 {
		return carousel.Config{}, fmt.Errorf("invalid autoplay grace: %s", cfg.AutoPlayGrace)
	}

	return carousel.Config{
		Name:           cfg.CarouselName,
		PageSize:       cfg.PageSize,
		ExitDuration:   cfg.ExitDuration,
		EnterDuration:  cfg.EnterDuration,
		AutoPlay:       cfg.AutoPlayEnabled,
		AutoPlayPeriod: cfg.AutoPlayPeriod,
		AutoPlayGrace:  cfg.AutoPlayGrace,
	}, nil
}

// NewController loads the catalog and builds the controller on engine.
func NewController(
	engine *timing.LoopEngine,
	renderer domain.Renderer,
	source domain.CatalogSource,
	ccfg carousel.Config,
) (*carousel.Controller, error) {
	if source == nil {
		return nil, errors.New("catalog source is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := app.LoadCatalog(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", source.Name(), err)
	}
	slog.Info("Catalog loaded", "source", source.Name(), "items", len(items))

	ctrl := carousel.New(engine, renderer, items, ccfg)
	ctrl.SetObserver(metrics.NewObserver())
	return ctrl, nil
}

// NewCarouselService creates the carousel service with validation.
func NewCarouselService(
	engine *timing.LoopEngine,
	controller *carousel.Controller,
	writer domain.ItemWriter,
	cfg *config.Config,
) (*app.CarouselService, error) {
	if controller == nil {
		return nil, errors.New("carousel controller is nil")
	}
	if cfg.SwipeThreshold < 0 {
		return nil, fmt.Errorf("invalid swipe threshold: %v", cfg.SwipeThreshold)
	}
	return app.NewCarouselService(engine, controller, writer, cfg.SwipeThreshold), nil
}

// NewCarouselAPI exposes the service to the HTTP control surface.
func NewCarouselAPI(service *app.CarouselService) transport.CarouselAPI {
	return service
}

// NewCommandSyncService creates the Kafka command service, or nil when
// Kafka is disabled.
func NewCommandSyncService(consumer *queue.KafkaConsumer, service *app.CarouselService) *app.CommandSyncService {
	if consumer == nil {
		return nil
	}
	return app.NewCommandSyncService(consumer, service)
}

// NewCatalogWatcher reloads the file catalog on change. It returns nil
// unless CATALOG_WATCH is set and the catalog is a file.
func NewCatalogWatcher(
	cfg *config.Config,
	source domain.CatalogSource,
	service *app.CarouselService,
) (*catalog.Watcher, error) {
	if !cfg.CatalogWatch {
		return nil, nil
	}
	fileSource, ok := source.(*catalog.FileSource)
	if !ok {
		slog.Warn("Catalog watch ignored for non-file source", "source", source.Name())
		return nil, nil
	}

	return catalog.NewWatcher(fileSource, func(ctx context.Context, items []domain.Item) {
		removed, added, err := service.ApplyCatalog(ctx, items)
		if err != nil {
			slog.Error("Failed to apply reloaded catalog", "error", err)
			return
		}
		slog.Info("Catalog reloaded", "removed", removed, "added", added)
	})
}
