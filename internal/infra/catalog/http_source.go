package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/TestimonialCarousel/internal/domain"
)

// HTTPSource fetches a JSON catalog from a remote endpoint. Requests are
// retried with exponential backoff inside a circuit breaker.
type HTTPSource struct {
	url        string
	client     *http.Client
	cb         *gobreaker.CircuitBreaker
	maxRetries int
	backoff    time.Duration
}

func NewHTTPSource(url string) *HTTPSource {
	cbSettings := gobreaker.Settings{
		Name:        "catalog-http",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if we have 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
		},
	}

	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

func (s *HTTPSource) Name() string {
	return "http"
}

func (s *HTTPSource) Load(ctx context.Context) ([]domain.Item, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("circuit breaker execute failed: %w", err)
	}

	items := result.([]domain.Item)
	slog.Info("Catalog loaded", "source", s.Name(), "url", s.url, "items", len(items))
	return items, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]domain.Item, error) {
	backoff := s.backoff

	for i := 0; i <= s.maxRetries; i++ {
		if i > 0 {
			slog.Info("Retrying catalog request", "url", s.url, "attempt", i, "max_retries", s.maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			slog.Warn("Catalog request failed", "url", s.url, "error", err)
			continue // Retry on network error
		}

		if resp.StatusCode >= 500 {
			s.closeBody(resp.Body)
			slog.Warn("Catalog server error", "url", s.url, "status_code", resp.StatusCode)
			continue // Retry on 5xx
		}

		if resp.StatusCode != http.StatusOK {
			s.closeBody(resp.Body)
			// Don't retry on 4xx
			return nil, fmt.Errorf("catalog endpoint returned status %d", resp.StatusCode)
		}

		items, err := Decode(resp.Body, FormatJSON)
		s.closeBody(resp.Body)
		if err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("max retries exceeded")
}

func (s *HTTPSource) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		slog.Warn("Failed to close response body", "error", err)
	}
}
