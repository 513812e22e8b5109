package render

import (
	"context"
	"errors"

	"github.com/TestimonialCarousel/internal/domain"
)

// Fanout delivers each frame to several renderers in order. A failing
// renderer does not stop delivery to the rest.
type Fanout struct {
	renderers []domain.Renderer
}

// NewFanout skips nil renderers.
func NewFanout(renderers ...domain.Renderer) *Fanout {
	f := &Fanout{}
	for _, r := range renderers {
		if r != nil {
			f.renderers = append(f.renderers, r)
		}
	}
	return f
}

func (f *Fanout) Render(ctx context.Context, frame domain.Frame) error {
	var errs []error
	for _, r := range f.renderers {
		if err := r.Render(ctx, frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
