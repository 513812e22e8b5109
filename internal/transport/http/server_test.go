package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TestimonialCarousel/internal/app"
	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/timing"
	"github.com/TestimonialCarousel/pkg/config"
)

func newTestServer(t *testing.T, n int) (*httptest.Server, *app.CarouselService) {
	t.Helper()

	items := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Item{ID: fmt.Sprintf("i%d", i), Name: "N", Quote: "Q"})
	}

	engine := timing.NewLoopEngine()
	ctrl := carousel.New(engine, nil, items, carousel.Config{
		PageSize:      2,
		ExitDuration:  100 * time.Millisecond,
		EnterDuration: 100 * time.Millisecond,
	})
	svc := app.NewCarouselService(engine, ctrl, nil, 50)
	require.NoError(t, svc.Start(context.Background()))

	srv := httptest.NewServer(NewRouter(svc))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Stop(context.Background())
	})
	return srv, svc
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func settle(t *testing.T, svc *app.CarouselService) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, err := svc.Snapshot(context.Background())
		return err == nil && !snap.IsTransitioning
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, 2)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPagingRoutes(t *testing.T) {
	srv, svc := newTestServer(t, 6)

	resp, body := do(t, srv, http.MethodGet, "/carousel", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total_pages"])

	resp, body = do(t, srv, http.MethodPost, "/carousel/next", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["accepted"])

	resp, body = do(t, srv, http.MethodPost, "/carousel/previous", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "dropped while transitioning")
	assert.Equal(t, false, body["accepted"])
	settle(t, svc)

	resp, body = do(t, srv, http.MethodPost, "/carousel/goto/42", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	state := body["state"].(map[string]any)
	assert.Equal(t, float64(2), state["page"])
	settle(t, svc)

	resp, body = do(t, srv, http.MethodGet, "/carousel/pages/-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["page"])
	assert.Len(t, body["items"], 2)
}

func TestInputRoutes(t *testing.T) {
	srv, _ := newTestServer(t, 6)

	resp, _ := do(t, srv, http.MethodPost, "/carousel/keys/Enter", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/carousel/swipe", `{"startX": 10}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/carousel/swipe", `{"startX": 10, "endX": 30}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "short swipe")

	resp, body := do(t, srv, http.MethodPost, "/carousel/keys/ArrowRight", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["accepted"])
}

func TestToggleRoutes(t *testing.T) {
	srv, _ := newTestServer(t, 4)

	resp, _ := do(t, srv, http.MethodPut, "/carousel/autoplay", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPut, "/carousel/autoplay", `{"enabled": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["autoplay_enabled"])

	resp, body = do(t, srv, http.MethodPost, "/carousel/hover", `{"hovered": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["hovered"])
	assert.Equal(t, false, body["autoplay_active"])

	resp, body = do(t, srv, http.MethodPost, "/carousel/visibility", `{"visible": false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["visible"])
}

func TestItemRoutes(t *testing.T) {
	srv, _ := newTestServer(t, 2)

	resp, _ := do(t, srv, http.MethodPost, "/carousel/items", `{"name": "New", "quote": "Hi"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/carousel/items", `{"id": "i0", "name": "Dup"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/carousel/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/carousel/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/carousel/items/i1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/carousel/items/i1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := do(t, srv, http.MethodGet, "/carousel", "")
	assert.Equal(t, float64(2), body["total_items"])
}

func TestStoppedServiceIsUnavailable(t *testing.T) {
	srv, svc := newTestServer(t, 2)
	require.NoError(t, svc.Stop(context.Background()))

	resp, _ := do(t, srv, http.MethodPost, "/carousel/next", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestNewHTTPServer(t *testing.T) {
	_, svc := newTestServer(t, 1)
	srv := NewHTTPServer(&config.Config{ServerPort: "9090"}, svc)
	assert.Equal(t, ":9090", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
