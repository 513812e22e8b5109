package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TestimonialCarousel/internal/domain"
)

// ChangeFunc receives the reloaded catalog.
type ChangeFunc func(ctx context.Context, items []domain.Item)

// Watcher reloads a FileSource when its file changes on disk. Bursts of
// events (editors often write, chmod and rename in one save) are collapsed
// into a single reload once the file has been quiet for the debounce window.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	source   *FileSource
	onChange ChangeFunc
	debounce time.Duration
	lastSeen time.Time // Zero when no reload is pending
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewWatcher(source *FileSource, onChange ChangeFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:  w,
		source:   source,
		onChange: onChange,
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the directory holding the catalog file. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dir := filepath.Dir(w.source.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.running = true
	slog.Info("Watching catalog file", "path", w.source.Path())

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		slog.Error("Failed to close file watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 5)
	defer ticker.Stop()

	target := filepath.Clean(w.source.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			slog.Debug("Catalog file event", "path", event.Name, "op", event.Op.String())
			w.mu.Lock()
			w.lastSeen = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		case <-ticker.C:
			if w.due() {
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) due() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastSeen.IsZero() || time.Since(w.lastSeen) < w.debounce {
		return false
	}
	w.lastSeen = time.Time{}
	return true
}

func (w *Watcher) reload(ctx context.Context) {
	items, err := w.source.Load(ctx)
	if err != nil {
		// Keep the current catalog; a half-written file is retried on the next event.
		slog.Warn("Catalog reload failed", "path", w.source.Path(), "error", err)
		return
	}
	w.onChange(ctx, items)
}
