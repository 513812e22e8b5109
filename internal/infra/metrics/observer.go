package metrics

import (
	"time"

	"github.com/TestimonialCarousel/internal/domain"
)

// Observer records controller activity in the package collectors.
type Observer struct{}

// NewObserver returns an observer backed by the default registry.
func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) PageChanged(_, to int, dir domain.Direction, trigger domain.Trigger) {
	PageChanges.WithLabelValues(string(dir), string(trigger)).Inc()
	CurrentPage.Set(float64(to))
}

func (o *Observer) RequestDropped(op string) {
	RequestsDropped.WithLabelValues(op).Inc()
}

func (o *Observer) TransitionSettled(d time.Duration) {
	TransitionDuration.Observe(d.Seconds())
}

func (o *Observer) CatalogChanged(items, pages, page int) {
	Items.Set(float64(items))
	TotalPages.Set(float64(pages))
	CurrentPage.Set(float64(page))
}

func (o *Observer) AutoPlayChanged(enabled, active bool) {
	AutoPlayEnabled.Set(boolValue(enabled))
	AutoPlayActive.Set(boolValue(active))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (o *Observer) RenderFailed(stage domain.Stage, _ error) {
	RenderErrors.WithLabelValues(string(stage)).Inc()
}
