package carousel

import "github.com/TestimonialCarousel/internal/domain"

// Snapshot is a copy of the controller state at one point in time.
type Snapshot struct {
	Name            string        `json:"name"`
	Page            int           `json:"page"`
	PageSize        int           `json:"page_size"`
	TotalPages      int           `json:"total_pages"`
	TotalItems      int           `json:"total_items"`
	IsTransitioning bool          `json:"is_transitioning"`
	Phase           string        `json:"phase"`
	AutoPlayEnabled bool          `json:"autoplay_enabled"`
	AutoPlayActive  bool          `json:"autoplay_active"` // A timer is pending
	Hovered         bool          `json:"hovered"`
	Visible         bool          `json:"visible"`
	Closed          bool          `json:"closed"`
	Items           []domain.Item `json:"items"` // Items of the current page
}
