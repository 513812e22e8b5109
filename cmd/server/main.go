package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/TestimonialCarousel/cmd/server/factory"
	"github.com/TestimonialCarousel/internal/app"
	"github.com/TestimonialCarousel/internal/infra/catalog"
	"github.com/TestimonialCarousel/internal/infra/tracing"
	transport "github.com/TestimonialCarousel/internal/transport/http"
	"github.com/TestimonialCarousel/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fx.New(
		fx.Provide(
			// Config
			config.Load,
			factory.NewCarouselConfig,

			// Infrastructure
			factory.NewEngine,
			factory.NewMongoClient,
			factory.NewMongoRepository,
			fx.Annotate(
				factory.NewFramesProducer,
				fx.ResultTags(`name:"frames_producer"`),
			),
			fx.Annotate(
				factory.NewDLQProducer,
				fx.ResultTags(`name:"dlq_producer"`),
			),
			fx.Annotate(
				factory.NewKafkaConsumer,
				fx.ParamTags(``, `name:"dlq_producer"`),
			),

			// Catalog & rendering
			factory.NewCatalogSource,
			factory.NewItemWriter,
			fx.Annotate(
				factory.NewRenderer,
				fx.ParamTags(`name:"frames_producer"`),
			),

			// Services
			factory.NewController,
			factory.NewCarouselService,
			factory.NewCommandSyncService,
			factory.NewCatalogWatcher,

			// HTTP Server
			factory.NewCarouselAPI,
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupTracer,
			WaitForReady, // Block until dependencies are ready
			RegisterHooks,
			StartServer,
		),
	).Run()
}

// --- Invokers ---

func RegisterHooks(
	lc fx.Lifecycle,
	service *app.CarouselService,
	syncService *app.CommandSyncService,
	watcher *catalog.Watcher,
) {
	r := &runner{service: service}
	if syncService != nil {
		r.sync = syncService
	}
	if watcher != nil {
		r.watcher = watcher
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return r.start(context.Background())
		},
		OnStop: r.stop,
	})
}

type carouselRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type commandRunner interface {
	Start(ctx context.Context)
	Stop() error
}

type catalogWatcher interface {
	Start(ctx context.Context) error
	Stop()
}

// runner starts the carousel loop, the command consumer and the catalog
// watcher in that order. fx skips OnStop for a hook whose OnStart failed, so
// start unwinds whatever it already started.
type runner struct {
	service carouselRunner
	sync    commandRunner  // nil when Kafka is disabled
	watcher catalogWatcher // nil unless CATALOG_WATCH is set
	cancel  context.CancelFunc
}

func (r *runner) start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	if err := r.service.Start(ctx); err != nil {
		r.shutdown(context.Background(), false)
		return err
	}
	if r.sync != nil {
		r.sync.Start(ctx)
	}
	if r.watcher != nil {
		if err := r.watcher.Start(ctx); err != nil {
			slog.Error("Failed to start catalog watcher", "error", err)
			r.shutdown(context.Background(), false)
			return err
		}
	}
	return nil
}

func (r *runner) stop(ctx context.Context) error {
	return r.shutdown(ctx, true)
}

func (r *runner) shutdown(ctx context.Context, watching bool) error {
	if watching && r.watcher != nil {
		r.watcher.Stop()
	}
	if r.sync != nil {
		if err := r.sync.Stop(); err != nil {
			slog.Error("Failed to close command consumer", "error", err)
		}
	}
	err := r.service.Stop(ctx)
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.OTelEnabled {
		return nil
	}

	ctx := context.Background()
	shutdown, err := tracing.InitTracer(ctx, "testimonial-carousel")
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForReady blocks until all dependencies are ready.
func WaitForReady(
	cfg *config.Config,
	mongoClient *mongo.Client,
) error {
	ctx := context.Background()
	var topics []string
	if cfg.KafkaEnabled() {
		topics = []string{cfg.KafkaFramesTopic, cfg.KafkaCommandsTopic}
	}
	waiter := app.NewReadinessWaiter(
		mongoClient,
		cfg.KafkaBrokers,
		topics...,
	)
	return waiter.WaitForDependencies(ctx)
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting carousel control server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
