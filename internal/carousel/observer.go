package carousel

import (
	"time"

	"github.com/TestimonialCarousel/internal/domain"
)

// Observer receives notifications about controller activity. Calls happen on
// the scheduler's loop and must not block.
type Observer interface {
	PageChanged(from, to int, dir domain.Direction, trigger domain.Trigger)
	RequestDropped(op string)
	TransitionSettled(d time.Duration)
	CatalogChanged(items, pages, page int) // page is the current page after clamping
	AutoPlayChanged(enabled, active bool)
	RenderFailed(stage domain.Stage, err error)
}

type nopObserver struct{}

func (nopObserver) PageChanged(int, int, domain.Direction, domain.Trigger) {}
func (nopObserver) RequestDropped(string)                                  {}
func (nopObserver) TransitionSettled(time.Duration)                        {}
func (nopObserver) CatalogChanged(int, int, int)                           {}
func (nopObserver) AutoPlayChanged(bool, bool)                             {}
func (nopObserver) RenderFailed(domain.Stage, error)                       {}
