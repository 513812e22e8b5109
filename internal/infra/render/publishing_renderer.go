package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/pkg/logging"
)

// PublishingRenderer forwards frames to a FramePublisher so that a remote
// surface can replay them. Repeated publish failures are logged through a
// sampler to keep a broker outage from flooding the log.
type PublishingRenderer struct {
	publisher domain.FramePublisher
	sampler   *logging.ErrorSampler
}

func NewPublishingRenderer(publisher domain.FramePublisher, sampler *logging.ErrorSampler) *PublishingRenderer {
	if sampler == nil {
		sampler = logging.NewErrorSampler(10)
	}
	return &PublishingRenderer{publisher: publisher, sampler: sampler}
}

func (r *PublishingRenderer) Render(ctx context.Context, frame domain.Frame) error {
	key := "frame_publish_" + string(frame.Stage)
	if err := r.publisher.Publish(ctx, frame); err != nil {
		if logged, n := r.sampler.Observe(key); logged {
			slog.Error("Failed to publish frame",
				"carousel", frame.Carousel,
				"stage", frame.Stage,
				"page", frame.Page,
				"occurrences", n,
				"error", err)
		}
		return fmt.Errorf("publish frame: %w", err)
	}
	if n := r.sampler.Recover(key); n > 0 {
		slog.Info("Frame publishing recovered", "stage", frame.Stage, "failures", n)
	}
	return nil
}
