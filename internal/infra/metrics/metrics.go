package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_page_changes_total",
			Help: "The total number of page changes started",
		},
		[]string{"direction", "trigger"},
	)

	RequestsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_requests_dropped_total",
			Help: "The total number of paging requests dropped because they could not start a transition",
		},
		[]string{"operation"},
	)

	TransitionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carousel_transition_duration_seconds",
			Help:    "Time from the start of a page change until it settles",
			Buckets: []float64{0.1, 0.25, 0.5, 0.8, 1, 2, 5},
		},
	)

	CurrentPage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_current_page",
			Help: "Index of the page currently shown",
		},
	)

	TotalPages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_total_pages",
			Help: "Number of pages in the carousel",
		},
	)

	Items = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_items",
			Help: "Number of items in the carousel",
		},
	)

	AutoPlayEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_autoplay_enabled",
			Help: "1 while auto-play is switched on, even if hover or visibility suspends it",
		},
	)

	AutoPlayActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_autoplay_active",
			Help: "1 while the auto-play timer is running",
		},
	)

	RenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_render_errors_total",
			Help: "Total number of frames the render surface failed to apply",
		},
		[]string{"stage"},
	)

	CommandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_commands_total",
			Help: "Total number of remote commands handled",
		},
		[]string{"op", "status"},
	)

	DLQMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carousel_dlq_messages_published_total",
			Help: "Total number of commands published to the DLQ",
		},
	)

	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carousel_catalog_load_duration_seconds",
			Help:    "Duration of catalog loads",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CatalogLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_catalog_load_errors_total",
			Help: "Total number of failed catalog loads",
		},
		[]string{"source"},
	)
)
