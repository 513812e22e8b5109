package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/TestimonialCarousel/internal/domain"
)

const jsonCatalog = `{
  "items": [
    {"id": "a", "name": "Ann", "quote": "Great", "rating": 5, "order": 2},
    {"id": "b", "name": "Ben", "quote": "Fine", "rating": 4, "order": 1},
    {"name": "", "quote": ""},
    {"id": "a", "name": "Ann again", "quote": "Dup"}
  ]
}`

const yamlCatalog = `
- name: Cleo
  company: Acme
  quote: Solid work
  rating: 7
  metrics:
    - value: "3M"
      label: Reach
- id: d
  name: Dan
  quote: Nice
`

func TestDecode_JSONWrapper(t *testing.T) {
	items, err := Decode(strings.NewReader(jsonCatalog), FormatJSON)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID, "sorted by declared order")
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "Ann", items[1].Name, "first duplicate wins")
	assert.Equal(t, 0, items[0].Order)
	assert.Equal(t, 1, items[1].Order)
}

func TestDecode_JSONList(t *testing.T) {
	items, err := Decode(strings.NewReader(`[{"id":"x","name":"X","quote":"q"}]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, itemIDs(items))
}

func TestDecode_YAMLList(t *testing.T) {
	items, err := Decode(strings.NewReader(yamlCatalog), FormatYAML)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Len(t, items[0].ID, 12, "missing id is derived from content")
	assert.Equal(t, items[0].ComputeID(), items[0].ID)
	assert.Equal(t, 5, items[0].Stars())
	assert.Equal(t, []domain.Metric{{Value: "3M", Label: "Reach"}}, items[0].Metrics)
	assert.Equal(t, "d", items[1].ID)
}

func TestDecode_YAMLWrapper(t *testing.T) {
	items, err := Decode(strings.NewReader("items:\n  - id: w\n    name: W\n    quote: q\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"w"}, itemIDs(items))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{not json`), FormatJSON)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("B.YML"))
	assert.Equal(t, FormatJSON, FormatFor("c.json"))
	assert.Equal(t, FormatJSON, FormatFor("noext"))
}

func TestDefaultItems(t *testing.T) {
	items := DefaultItems()
	require.Len(t, items, 4)
	assert.Equal(t, []string{"sarah-johnson", "michael-chen", "emily-rodriguez", "david-park"}, itemIDs(items))
	assert.Equal(t, items, Normalize(items))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		items, err := NewFileSource(filepath.Join(dir, "missing.json")).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultItems(), items)
	})

	t.Run("Reads YAML by extension", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.yml")
		require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o644))

		src := NewFileSource(path)
		items, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "file", src.Name())
	})

	t.Run("Malformed file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"items": 3}`), 0o644))

		_, err := NewFileSource(path).Load(ctx)
		assert.Error(t, err)
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("Retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`[{"id":"h","name":"H","quote":"q"}]`))
		}))
		defer server.Close()

		src := NewHTTPSource(server.URL)
		src.backoff = time.Millisecond

		items, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"h"}, itemIDs(items))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		src := NewHTTPSource(server.URL)
		src.backoff = time.Millisecond

		_, err := src.Load(context.Background())
		assert.ErrorContains(t, err, "status 404")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Opens the breaker after consecutive failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		src := NewHTTPSource(server.URL)
		for i := 0; i < 3; i++ {
			_, err := src.Load(context.Background())
			require.Error(t, err)
		}

		_, err := src.Load(context.Background())
		assert.ErrorContains(t, err, "circuit breaker is open")
	})
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "testimonials.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"one","name":"One","quote":"q"}]`), 0o644))

	changes := make(chan []domain.Item, 4)
	w, err := NewWatcher(NewFileSource(path), func(_ context.Context, items []domain.Item) {
		changes <- items
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"one","name":"One","quote":"q"},{"id":"two","name":"Two","quote":"q"}]`), 0o644))

	select {
	case items := <-changes:
		assert.Equal(t, []string{"one", "two"}, itemIDs(items))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	w.Stop()
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "testimonials.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(NewFileSource(path), func(context.Context, []domain.Item) { calls.Add(1) })
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o644))
	time.Sleep(200 * time.Millisecond)

	w.Stop()
	assert.Zero(t, calls.Load())
}

func TestWatcher_StartFailureLeavesStopUsable(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	missing := filepath.Join(t.TempDir(), "missing", "testimonials.json")
	w, err := NewWatcher(NewFileSource(missing), func(context.Context, []domain.Item) {})
	require.NoError(t, err)

	err = w.Start(context.Background())
	assert.ErrorContains(t, err, "failed to watch")

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}

func itemIDs(items []domain.Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
