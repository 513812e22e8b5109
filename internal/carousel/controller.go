// Package carousel implements the paged testimonial carousel.
//
// A Controller owns an ordered item collection split into pages of a fixed
// size. It pages forward and backward with wraparound, jumps to a page, and
// optionally advances on a repeating auto-play timer. Every page change runs
// through the transition state machine described on Phase, and only one
// transition is ever in flight: paging requests that arrive while one is
// running are dropped.
//
// The controller is not safe for concurrent use. All methods, including the
// scheduled callbacks delivered through Handle, must run on the loop of the
// timing.EventScheduler it was built with.
package carousel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/timing"
	"github.com/rs/xid"
)

type exitDoneEvent struct {
	transition uint64
}

type enterDoneEvent struct {
	transition uint64
}

type autoPlayTickEvent struct{}

type autoPlayResumeEvent struct{}

// Controller presents items in fixed-size pages.
type Controller struct {
	cfg      Config
	engine   timing.EventScheduler
	renderer domain.Renderer
	observer Observer

	items []domain.Item
	page  int
	shown []domain.Item // What the render surface currently displays

	phase      Phase
	transition uint64
	pending    domain.Frame // Enter frame of the running transition
	startedAt  timing.VTime
	phaseTimer timing.EventID
	dirty      bool // Catalog changed during a transition

	autoPlay      bool
	autoPlayTimer timing.EventID
	hovered       bool
	hidden        bool

	started bool
	closed  bool
}

// New creates a controller over a copy of items. A nil renderer discards
// frames.
func New(engine timing.EventScheduler, renderer domain.Renderer, items []domain.Item, cfg Config) *Controller {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	cfg = cfg.normalized()

	c := &Controller{
		cfg:      cfg,
		engine:   engine,
		renderer: renderer,
		observer: nopObserver{},
		items:    append([]domain.Item(nil), items...),
	}
	return c
}

// SetObserver replaces the observer. A nil observer disables notifications.
func (c *Controller) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
	c.observer.CatalogChanged(len(c.items), c.TotalPages(), c.page)
}

// Start renders the first page without animation and applies the configured
// auto-play state.
func (c *Controller) Start() {
	if c.closed || c.started {
		return
	}
	c.started = true

	slog.Info("Starting carousel",
		"carousel", c.cfg.Name,
		"items", len(c.items),
		"page_size", c.cfg.PageSize,
		"pages", c.TotalPages())

	c.refresh(domain.TriggerInitial)
	c.SetAutoPlay(c.cfg.AutoPlay)
}

// Close cancels every pending timer and detaches the renderer. The controller
// ignores all operations afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}

	c.cancelAutoPlay()
	if c.phaseTimer != 0 {
		c.engine.Cancel(c.phaseTimer)
		c.phaseTimer = 0
	}
	c.phase = PhaseIdle
	c.closed = true
	c.renderer = nopRenderer{}
	c.observer.AutoPlayChanged(c.autoPlay, false)

	slog.Info("Carousel closed", "carousel", c.cfg.Name)
}

// Handle implements timing.Handler.
func (c *Controller) Handle(event any) error {
	switch e := event.(type) {
	case *exitDoneEvent:
		c.onExitDone(e)
	case *enterDoneEvent:
		c.onEnterDone(e)
	case *autoPlayTickEvent:
		c.onAutoPlayTick()
	case *autoPlayResumeEvent:
		c.onAutoPlayResume()
	default:
		return fmt.Errorf("carousel: unknown event type: %T", event)
	}
	return nil
}

// NextPage advances one page, wrapping from the last page to the first.
// It reports whether a transition started.
func (c *Controller) NextPage() bool {
	return c.step("next", 1, domain.DirectionForward, domain.TriggerManual)
}

// PreviousPage goes back one page, wrapping from the first page to the last.
func (c *Controller) PreviousPage() bool {
	return c.step("previous", -1, domain.DirectionBackward, domain.TriggerManual)
}

// GotoPage jumps to page n. Bounds are the caller's job (see Clamp); an
// out-of-range n is reduced modulo the page count.
func (c *Controller) GotoPage(n int) bool {
	if !c.ready("goto") {
		return false
	}
	return c.changePage("goto", Wrap(n, c.TotalPages()), domain.DirectionJump, domain.TriggerManual)
}

// SetAutoPlay turns auto-advance on or off. Enabling always restarts the
// timer with a full period.
func (c *Controller) SetAutoPlay(enabled bool) {
	if c.closed {
		return
	}

	c.autoPlay = enabled
	c.cancelAutoPlay()
	if enabled {
		c.scheduleAutoPlay(&autoPlayTickEvent{}, c.cfg.AutoPlayPeriod)
	}
	c.observer.AutoPlayChanged(enabled, c.autoPlayTimer != 0)

	slog.Debug("Auto-play changed", "carousel", c.cfg.Name, "enabled", enabled, "active", c.autoPlayTimer != 0)
}

// SetHovered suspends auto-play while the pointer is over the carousel.
// Leaving restarts the timer with a full period.
func (c *Controller) SetHovered(hovered bool) {
	if c.closed || c.hovered == hovered {
		return
	}
	c.hovered = hovered
	c.suspendOrResume()
}

// SetVisible suspends auto-play while the carousel is out of view.
func (c *Controller) SetVisible(visible bool) {
	if c.closed || c.hidden == !visible {
		return
	}
	c.hidden = !visible
	c.suspendOrResume()
}

// AddItem appends item to the collection. Items without an id, or with an id
// already present, are rejected.
func (c *Controller) AddItem(item domain.Item) bool {
	if c.closed || item.ID == "" || c.indexOf(item.ID) >= 0 {
		return false
	}

	c.items = append(c.items, item)
	c.catalogChanged()
	return true
}

// RemoveItem deletes the item with the given id.
func (c *Controller) RemoveItem(id string) bool {
	if c.closed {
		return false
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.catalogChanged()
	return true
}

// Contains reports whether an item with the given id is in the collection.
func (c *Controller) Contains(id string) bool {
	return c.indexOf(id) >= 0
}

// CurrentPage returns the index of the current page.
func (c *Controller) CurrentPage() int {
	return c.page
}

// TotalPages returns ceil(len(items)/pageSize).
func (c *Controller) TotalPages() int {
	return TotalPages(len(c.items), c.cfg.PageSize)
}

// PageSize returns the number of items per page.
func (c *Controller) PageSize() int {
	return c.cfg.PageSize
}

// IsTransitioning reports whether a page change is in flight.
func (c *Controller) IsTransitioning() bool {
	return c.phase != PhaseIdle
}

// Phase returns the current transition phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// AutoPlayEnabled reports the auto-play setting, regardless of hover or
// visibility suspension.
func (c *Controller) AutoPlayEnabled() bool {
	return c.autoPlay
}

// Items returns a copy of the whole collection.
func (c *Controller) Items() []domain.Item {
	return append([]domain.Item(nil), c.items...)
}

// PageItems returns a copy of the items on page n (taken modulo the page count).
func (c *Controller) PageItems(n int) []domain.Item {
	total := c.TotalPages()
	if total == 0 {
		return nil
	}
	start, end := pageBounds(Wrap(n, total), c.cfg.PageSize, len(c.items))
	return append([]domain.Item(nil), c.items[start:end]...)
}

// CurrentItems returns the items on the current page.
func (c *Controller) CurrentItems() []domain.Item {
	return c.PageItems(c.page)
}

// State returns a snapshot of the controller.
func (c *Controller) State() Snapshot {
	return Snapshot{
		Name:            c.cfg.Name,
		Page:            c.page,
		PageSize:        c.cfg.PageSize,
		TotalPages:      c.TotalPages(),
		TotalItems:      len(c.items),
		IsTransitioning: c.IsTransitioning(),
		Phase:           c.phase.String(),
		AutoPlayEnabled: c.autoPlay,
		AutoPlayActive:  c.autoPlayTimer != 0,
		Hovered:         c.hovered,
		Visible:         !c.hidden,
		Closed:          c.closed,
		Items:           c.CurrentItems(),
	}
}

func (c *Controller) step(op string, delta int, dir domain.Direction, trigger domain.Trigger) bool {
	if !c.ready(op) {
		return false
	}
	return c.changePage(op, Wrap(c.page+delta, c.TotalPages()), dir, trigger)
}

func (c *Controller) ready(op string) bool {
	switch {
	case c.closed:
		c.drop(op, "closed")
	case c.TotalPages() == 0:
		c.drop(op, "empty")
	case c.phase != PhaseIdle:
		c.drop(op, "transitioning")
	default:
		return true
	}
	return false
}

func (c *Controller) changePage(op string, target int, dir domain.Direction, trigger domain.Trigger) bool {
	if target == c.page {
		c.drop(op, "same page")
		return false
	}

	from := c.page
	c.page = target
	c.transition++
	c.phase = PhaseExitAnimating
	c.startedAt = c.engine.CurrentTime()
	c.pending = c.frame(domain.StageEnter, target, c.PageItems(target), dir, trigger)

	c.render(c.frame(domain.StageExit, from, c.shown, dir, trigger))
	c.phaseTimer = c.schedule(&exitDoneEvent{transition: c.transition}, c.cfg.ExitDuration)
	c.observer.PageChanged(from, target, dir, trigger)

	slog.Debug("Page change started",
		"carousel", c.cfg.Name,
		"op", op,
		"from", from,
		"to", target,
		"trigger", trigger)

	if trigger == domain.TriggerManual {
		c.scheduleAutoPlay(&autoPlayResumeEvent{}, c.cfg.AutoPlayGrace)
	}
	return true
}

func (c *Controller) onExitDone(e *exitDoneEvent) {
	if c.closed || e.transition != c.transition || c.phase != PhaseExitAnimating {
		return
	}

	c.phase = PhaseSwapping
	if c.page != c.pending.Page {
		// The target page was removed before the swap. Enter the clamped page.
		c.pending.Page = c.page
		c.pending.Items = c.CurrentItems()
	}
	c.pending.TotalPages = c.TotalPages()
	c.pending.At = c.engine.CurrentTime().Duration()
	c.shown = c.pending.Items
	c.render(c.pending)

	c.phase = PhaseEnterAnimating
	c.phaseTimer = c.schedule(&enterDoneEvent{transition: e.transition}, c.cfg.EnterDuration)
}

func (c *Controller) onEnterDone(e *enterDoneEvent) {
	if c.closed || e.transition != c.transition || c.phase != PhaseEnterAnimating {
		return
	}

	c.phase = PhaseIdle
	c.phaseTimer = 0

	// A removal during the entrance may have clamped the page that entered
	// away. It no longer exists, so only the refresh is rendered.
	clamped := c.page != c.pending.Page
	if !clamped {
		c.render(c.frame(domain.StageSettled, c.page, c.shown, c.pending.Direction, c.pending.Trigger))
	}
	c.observer.TransitionSettled((c.engine.CurrentTime() - c.startedAt).Duration())

	if c.dirty {
		c.dirty = false
		if clamped {
			c.refresh(domain.TriggerCatalog)
		} else {
			c.refreshIfStale()
		}
	}
}

func (c *Controller) onAutoPlayTick() {
	c.autoPlayTimer = 0
	if c.phase != PhaseIdle {
		c.drop("autoplay", "transitioning")
	} else {
		c.step("autoplay", 1, domain.DirectionForward, domain.TriggerAutoPlay)
	}
	c.scheduleAutoPlay(&autoPlayTickEvent{}, c.cfg.AutoPlayPeriod)
}

func (c *Controller) onAutoPlayResume() {
	c.autoPlayTimer = 0
	c.scheduleAutoPlay(&autoPlayTickEvent{}, c.cfg.AutoPlayPeriod)
}

func (c *Controller) autoPlayAllowed() bool {
	return c.autoPlay && !c.hovered && !c.hidden && !c.closed
}

// scheduleAutoPlay replaces the pending auto-play timer, if auto-play is
// currently allowed to run.
func (c *Controller) scheduleAutoPlay(evt any, after time.Duration) {
	if !c.autoPlayAllowed() {
		return
	}
	c.cancelAutoPlay()
	c.autoPlayTimer = c.schedule(evt, after)
}

func (c *Controller) cancelAutoPlay() {
	if c.autoPlayTimer != 0 {
		c.engine.Cancel(c.autoPlayTimer)
		c.autoPlayTimer = 0
	}
}

func (c *Controller) suspendOrResume() {
	if c.autoPlayAllowed() {
		c.scheduleAutoPlay(&autoPlayTickEvent{}, c.cfg.AutoPlayPeriod)
	} else {
		c.cancelAutoPlay()
	}
	c.observer.AutoPlayChanged(c.autoPlay, c.autoPlayTimer != 0)
}

func (c *Controller) catalogChanged() {
	total := c.TotalPages()
	c.page = Clamp(c.page, total)
	c.observer.CatalogChanged(len(c.items), total, c.page)

	if c.phase != PhaseIdle {
		c.dirty = true
		return
	}
	if c.started {
		c.refreshIfStale()
	}
}

func (c *Controller) refreshIfStale() {
	if !sameIDs(c.shown, c.CurrentItems()) {
		c.refresh(domain.TriggerCatalog)
	}
}

func (c *Controller) refresh(trigger domain.Trigger) {
	f := c.frame(domain.StageRefresh, c.page, c.CurrentItems(), domain.DirectionNone, trigger)
	c.shown = f.Items
	c.render(f)
}

func (c *Controller) schedule(evt any, after time.Duration) timing.EventID {
	return c.engine.Schedule(timing.ScheduledEvent{
		Event:   evt,
		Time:    c.engine.CurrentTime().After(after),
		Handler: c,
	})
}

func (c *Controller) frame(stage domain.Stage, page int, items []domain.Item, dir domain.Direction, trigger domain.Trigger) domain.Frame {
	return domain.Frame{
		ID:         xid.New().String(),
		Carousel:   c.cfg.Name,
		Stage:      stage,
		Page:       page,
		TotalPages: c.TotalPages(),
		Items:      items,
		Direction:  dir,
		Trigger:    trigger,
		At:         c.engine.CurrentTime().Duration(),
	}
}

func (c *Controller) render(f domain.Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RenderTimeout)
	defer cancel()

	if err := c.renderer.Render(ctx, f); err != nil {
		slog.Warn("Render failed", "carousel", c.cfg.Name, "stage", f.Stage, "page", f.Page, "error", err)
		c.observer.RenderFailed(f.Stage, err)
	}
}

func (c *Controller) drop(op, reason string) {
	c.observer.RequestDropped(op)
	slog.Debug("Paging request dropped", "carousel", c.cfg.Name, "op", op, "reason", reason)
}

func (c *Controller) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func sameIDs(a, b []domain.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, domain.Frame) error { return nil }
