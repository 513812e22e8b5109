package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/timing"
)

var (
	ErrInvalidItem   = errors.New("item needs a name or a quote")
	ErrDuplicateItem = errors.New("item already exists")
	ErrItemNotFound  = errors.New("item not found")
	ErrUnknownKey    = errors.New("key is not bound to a paging action")
)

// Outcome is the result of a paging request. Accepted is false when the
// controller dropped the request.
type Outcome struct {
	Accepted bool              `json:"accepted"`
	State    carousel.Snapshot `json:"state"`
}

// CarouselService is the thread-safe front of a Controller. Every call hops
// onto the engine loop that owns the controller and waits for the result.
type CarouselService struct {
	engine         *timing.LoopEngine
	controller     *carousel.Controller
	writer         domain.ItemWriter // Optional persistence for add/remove
	swipeThreshold float64
}

func NewCarouselService(
	engine *timing.LoopEngine,
	controller *carousel.Controller,
	writer domain.ItemWriter,
	swipeThreshold float64,
) *CarouselService {
	return &CarouselService{
		engine:         engine,
		controller:     controller,
		writer:         writer,
		swipeThreshold: swipeThreshold,
	}
}

// Start launches the engine loop and renders the first page.
func (s *CarouselService) Start(ctx context.Context) error {
	s.engine.Start(ctx)
	return s.engine.Do(ctx, s.controller.Start)
}

// Stop closes the controller and stops the loop.
func (s *CarouselService) Stop(ctx context.Context) error {
	err := s.engine.Do(ctx, s.controller.Close)
	s.engine.Stop()
	if errors.Is(err, timing.ErrEngineStopped) {
		return nil
	}
	return err
}

func (s *CarouselService) Next(ctx context.Context) (Outcome, error) {
	return s.page(ctx, "next", s.controller.NextPage)
}

func (s *CarouselService) Previous(ctx context.Context) (Outcome, error) {
	return s.page(ctx, "previous", s.controller.PreviousPage)
}

// Goto clamps n to the page range before jumping.
func (s *CarouselService) Goto(ctx context.Context, n int) (Outcome, error) {
	return s.page(ctx, "goto", func() bool {
		return s.controller.GotoPage(carousel.Clamp(n, s.controller.TotalPages()))
	})
}

func (s *CarouselService) HandleKey(ctx context.Context, key string) (Outcome, error) {
	action := carousel.KeyAction(key)
	if action == carousel.ActionNone {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.page(ctx, "key_"+action.String(), func() bool {
		return s.controller.Apply(action)
	})
}

// HandleSwipe pages when the horizontal distance exceeds the configured
// threshold. Shorter swipes are reported as not accepted.
func (s *CarouselService) HandleSwipe(ctx context.Context, startX, endX float64) (Outcome, error) {
	action := carousel.SwipeAction(startX, endX, s.swipeThreshold)
	return s.page(ctx, "swipe_"+action.String(), func() bool {
		return s.controller.Apply(action)
	})
}

func (s *CarouselService) SetAutoPlay(ctx context.Context, enabled bool) (carousel.Snapshot, error) {
	return s.update(ctx, "autoplay", func() { s.controller.SetAutoPlay(enabled) }, attribute.Bool("enabled", enabled))
}

func (s *CarouselService) SetHovered(ctx context.Context, hovered bool) (carousel.Snapshot, error) {
	return s.update(ctx, "hover", func() { s.controller.SetHovered(hovered) }, attribute.Bool("hovered", hovered))
}

func (s *CarouselService) SetVisible(ctx context.Context, visible bool) (carousel.Snapshot, error) {
	return s.update(ctx, "visibility", func() { s.controller.SetVisible(visible) }, attribute.Bool("visible", visible))
}

// AddItem appends item, generating an id when it has none. When a writer is
// configured the item is persisted first and only shown once stored.
func (s *CarouselService) AddItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctx, span := startSpan(ctx, "add_item")
	defer span.End()

	if item.Name == "" && item.Quote == "" {
		return domain.Item{}, ErrInvalidItem
	}
	if item.ID == "" {
		item.ID = xid.New().String()
	}
	span.SetAttributes(attribute.String("item_id", item.ID))

	var exists bool
	err := s.engine.Do(ctx, func() {
		exists = s.controller.Contains(item.ID)
		item.Order = len(s.controller.Items())
	})
	if err != nil {
		span.RecordError(err)
		return domain.Item{}, err
	}
	if exists {
		return domain.Item{}, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}

	if s.writer != nil {
		if err := s.writer.Upsert(ctx, &item); err != nil {
			span.RecordError(err)
			slog.Error("Failed to persist item", "id", item.ID, "error", err)
			return domain.Item{}, fmt.Errorf("persist item: %w", err)
		}
	}

	var added bool
	if err := s.engine.Do(ctx, func() { added = s.controller.AddItem(item) }); err != nil {
		span.RecordError(err)
		return domain.Item{}, err
	}
	if !added {
		// Another request added the same id while this one was persisting.
		return domain.Item{}, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}

	slog.Info("Item added", "id", item.ID, "name", item.Name)
	return item, nil
}

func (s *CarouselService) RemoveItem(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, "remove_item")
	defer span.End()
	span.SetAttributes(attribute.String("item_id", id))

	var exists bool
	if err := s.engine.Do(ctx, func() { exists = s.controller.Contains(id) }); err != nil {
		span.RecordError(err)
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	if s.writer != nil {
		if err := s.writer.Delete(ctx, id); err != nil {
			span.RecordError(err)
			slog.Error("Failed to delete persisted item", "id", id, "error", err)
			return fmt.Errorf("delete item: %w", err)
		}
	}

	if err := s.engine.Do(ctx, func() { s.controller.RemoveItem(id) }); err != nil {
		span.RecordError(err)
		return err
	}

	slog.Info("Item removed", "id", id)
	return nil
}

// ApplyCatalog reconciles the controller with a reloaded catalog. Items that
// disappeared or changed are removed; new and changed items are appended in
// catalog order. It returns the number of removals and additions.
func (s *CarouselService) ApplyCatalog(ctx context.Context, items []domain.Item) (removed, added int, err error) {
	ctx, span := startSpan(ctx, "apply_catalog")
	defer span.End()

	err = s.engine.Do(ctx, func() {
		current := make(map[string]domain.Item)
		for _, it := range s.controller.Items() {
			current[it.ID] = it
		}
		next := make(map[string]domain.Item, len(items))
		for _, it := range items {
			next[it.ID] = it
		}

		for id, old := range current {
			if it, ok := next[id]; !ok || !it.SameContent(old) {
				if s.controller.RemoveItem(id) {
					removed++
				}
			}
		}
		for _, it := range items {
			if old, ok := current[it.ID]; ok && it.SameContent(old) {
				continue
			}
			if s.controller.AddItem(it) {
				added++
			}
		}
	})
	if err != nil {
		span.RecordError(err)
		return 0, 0, err
	}

	span.SetAttributes(attribute.Int("removed", removed), attribute.Int("added", added))
	if removed > 0 || added > 0 {
		slog.Info("Catalog applied", "removed", removed, "added", added)
	}
	return removed, added, nil
}

func (s *CarouselService) Snapshot(ctx context.Context) (carousel.Snapshot, error) {
	var snap carousel.Snapshot
	err := s.engine.Do(ctx, func() { snap = s.controller.State() })
	return snap, err
}

// Page returns the items of page n, clamped to the page range, together with
// the page index actually used.
func (s *CarouselService) Page(ctx context.Context, n int) ([]domain.Item, int, error) {
	var (
		items []domain.Item
		page  int
	)
	err := s.engine.Do(ctx, func() {
		page = carousel.Clamp(n, s.controller.TotalPages())
		items = s.controller.PageItems(page)
	})
	return items, page, err
}

func (s *CarouselService) page(ctx context.Context, op string, fn func() bool) (Outcome, error) {
	ctx, span := startSpan(ctx, op)
	defer span.End()

	var out Outcome
	err := s.engine.Do(ctx, func() {
		out.Accepted = fn()
		out.State = s.controller.State()
	})
	if err != nil {
		span.RecordError(err)
		return Outcome{}, err
	}

	span.SetAttributes(
		attribute.Bool("accepted", out.Accepted),
		attribute.Int("page", out.State.Page),
	)
	return out, nil
}

func (s *CarouselService) update(ctx context.Context, op string, fn func(), attrs ...attribute.KeyValue) (carousel.Snapshot, error) {
	ctx, span := startSpan(ctx, op)
	defer span.End()
	span.SetAttributes(attrs...)

	var snap carousel.Snapshot
	err := s.engine.Do(ctx, func() {
		fn()
		snap = s.controller.State()
	})
	if err != nil {
		span.RecordError(err)
	}
	return snap, err
}

func startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer("carousel-service").Start(ctx, "carousel."+op)
}
