package render

import (
	"context"
	"log/slog"

	"github.com/TestimonialCarousel/internal/domain"
)

// LogRenderer writes every frame to the structured log. It stands in for a
// real render surface in local runs.
type LogRenderer struct {
	logger *slog.Logger
}

func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) Render(ctx context.Context, frame domain.Frame) error {
	r.logger.InfoContext(ctx, "Frame",
		"carousel", frame.Carousel,
		"stage", frame.Stage,
		"page", frame.Page,
		"total_pages", frame.TotalPages,
		"items", frame.ItemIDs(),
		"direction", frame.Direction,
		"trigger", frame.Trigger,
		"at", frame.At)
	return nil
}
