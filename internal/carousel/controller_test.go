package carousel_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/timing"
)

const transition = 800 * time.Millisecond

type recordingRenderer struct {
	frames []domain.Frame
}

func (r *recordingRenderer) Render(_ context.Context, f domain.Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordingRenderer) last() domain.Frame {
	Expect(r.frames).NotTo(BeEmpty())
	return r.frames[len(r.frames)-1]
}

func (r *recordingRenderer) stages() []domain.Stage {
	stages := make([]domain.Stage, 0, len(r.frames))
	for _, f := range r.frames {
		stages = append(stages, f.Stage)
	}
	return stages
}

type recordingObserver struct {
	changes      []string
	dropped      map[string]int
	settled      []time.Duration
	renderErrors int
	items, pages int
	page         int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{dropped: make(map[string]int)}
}

func (o *recordingObserver) PageChanged(from, to int, dir domain.Direction, trigger domain.Trigger) {
	o.changes = append(o.changes, fmt.Sprintf("%d->%d %s %s", from, to, dir, trigger))
	o.page = to
}
func (o *recordingObserver) RequestDropped(op string)          { o.dropped[op]++ }
func (o *recordingObserver) TransitionSettled(d time.Duration) { o.settled = append(o.settled, d) }
func (o *recordingObserver) CatalogChanged(items, pages, page int) {
	o.items, o.pages, o.page = items, pages, page
}
func (o *recordingObserver) AutoPlayChanged(bool, bool)       {}
func (o *recordingObserver) RenderFailed(domain.Stage, error) { o.renderErrors++ }

func makeItems(n int) []domain.Item {
	items := make([]domain.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.Item{
			ID:    fmt.Sprintf("t-%02d", i),
			Name:  fmt.Sprintf("Customer %d", i),
			Quote: "Great work",
			Order: i,
		})
	}
	return items
}

func ids(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

var _ = Describe("Controller", func() {
	var (
		engine   *timing.SerialEngine
		renderer *recordingRenderer
		observer *recordingObserver
		cfg      carousel.Config
		c        *carousel.Controller
	)

	advance := func(d time.Duration) {
		Expect(engine.Advance(d)).To(Succeed())
	}

	build := func(items []domain.Item) {
		c = carousel.New(engine, renderer, items, cfg)
		c.SetObserver(observer)
		c.Start()
	}

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		renderer = &recordingRenderer{}
		observer = newRecordingObserver()
		cfg = carousel.Config{
			Name:           "test",
			PageSize:       6,
			ExitDuration:   400 * time.Millisecond,
			EnterDuration:  400 * time.Millisecond,
			AutoPlayPeriod: 8 * time.Second,
			AutoPlayGrace:  time.Second,
		}
	})

	Context("paging", func() {
		BeforeEach(func() {
			build(makeItems(15))
		})

		It("should split items into pages", func() {
			Expect(c.TotalPages()).To(Equal(3))
			Expect(c.CurrentPage()).To(Equal(0))
			Expect(c.IsTransitioning()).To(BeFalse())
			Expect(c.PageItems(2)).To(HaveLen(3))

			initial := renderer.last()
			Expect(initial.Stage).To(Equal(domain.StageRefresh))
			Expect(initial.Trigger).To(Equal(domain.TriggerInitial))
			Expect(initial.ItemIDs()).To(Equal(ids(makeItems(6))))
		})

		It("should land on pages 1, 2, 0 after three settled next calls", func() {
			var visited []int
			for i := 0; i < 3; i++ {
				Expect(c.NextPage()).To(BeTrue())
				advance(transition)
				visited = append(visited, c.CurrentPage())
			}
			Expect(visited).To(Equal([]int{1, 2, 0}))
			Expect(observer.changes).To(Equal([]string{
				"0->1 forward manual",
				"1->2 forward manual",
				"2->0 forward manual",
			}))
		})

		It("should wrap backward from the first page", func() {
			Expect(c.PreviousPage()).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(2))
			advance(transition)
			Expect(renderer.last().Items).To(HaveLen(3))
		})

		It("should drop paging requests while transitioning", func() {
			Expect(c.NextPage()).To(BeTrue())

			Expect(c.NextPage()).To(BeFalse())
			Expect(c.PreviousPage()).To(BeFalse())
			Expect(c.GotoPage(0)).To(BeFalse())
			Expect(c.CurrentPage()).To(Equal(1))

			advance(400 * time.Millisecond)
			Expect(c.NextPage()).To(BeFalse())
			Expect(c.CurrentPage()).To(Equal(1))

			Expect(observer.dropped).To(Equal(map[string]int{"next": 2, "previous": 1, "goto": 1}))
		})

		It("should walk the transition phases and always settle", func() {
			Expect(c.NextPage()).To(BeTrue())
			Expect(c.Phase()).To(Equal(carousel.PhaseExitAnimating))
			Expect(c.IsTransitioning()).To(BeTrue())

			advance(399 * time.Millisecond)
			Expect(c.Phase()).To(Equal(carousel.PhaseExitAnimating))

			advance(time.Millisecond)
			Expect(c.Phase()).To(Equal(carousel.PhaseEnterAnimating))

			advance(400 * time.Millisecond)
			Expect(c.Phase()).To(Equal(carousel.PhaseIdle))
			Expect(c.IsTransitioning()).To(BeFalse())
			Expect(observer.settled).To(Equal([]time.Duration{transition}))
			Expect(engine.Len()).To(BeZero())
		})

		It("should render exit, enter and settled frames", func() {
			renderer.frames = nil
			Expect(c.NextPage()).To(BeTrue())
			advance(transition)

			Expect(renderer.stages()).To(Equal([]domain.Stage{
				domain.StageExit, domain.StageEnter, domain.StageSettled,
			}))
			exit, enter := renderer.frames[0], renderer.frames[1]
			Expect(exit.Page).To(Equal(0))
			Expect(exit.ItemIDs()).To(Equal(ids(makeItems(6))))
			Expect(enter.Page).To(Equal(1))
			Expect(enter.ItemIDs()).To(Equal(ids(makeItems(12)[6:])))
			Expect(enter.Direction).To(Equal(domain.DirectionForward))
			Expect(enter.At).To(Equal(400 * time.Millisecond))
		})

		It("should ignore goto to the current page", func() {
			Expect(c.GotoPage(0)).To(BeFalse())
			Expect(c.IsTransitioning()).To(BeFalse())
			Expect(observer.dropped["goto"]).To(Equal(1))
		})

		It("should jump directly with goto", func() {
			Expect(c.GotoPage(2)).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(2))
			advance(transition)
			Expect(renderer.last().Direction).To(Equal(domain.DirectionJump))
		})

		It("should keep out-of-range goto indices inside the page range", func() {
			Expect(c.GotoPage(5)).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(2))
			advance(transition)

			Expect(c.GotoPage(-2)).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(1))
		})

		It("should page with actions", func() {
			Expect(c.Apply(carousel.ActionPrevious)).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(2))
			advance(transition)
			Expect(c.Apply(carousel.ActionNext)).To(BeTrue())
			Expect(c.CurrentPage()).To(Equal(0))
			Expect(c.Apply(carousel.ActionNone)).To(BeFalse())
		})

		It("should report a snapshot", func() {
			Expect(c.NextPage()).To(BeTrue())
			s := c.State()
			Expect(s.Name).To(Equal("test"))
			Expect(s.Page).To(Equal(1))
			Expect(s.TotalPages).To(Equal(3))
			Expect(s.TotalItems).To(Equal(15))
			Expect(s.IsTransitioning).To(BeTrue())
			Expect(s.Phase).To(Equal("exit_animating"))
			Expect(s.Visible).To(BeTrue())
			Expect(s.Items).To(HaveLen(6))
		})

		It("should reject unknown events", func() {
			Expect(c.Handle("bogus")).To(HaveOccurred())
		})
	})

	Context("auto-play", func() {
		BeforeEach(func() {
			build(makeItems(15))
		})

		It("should not change the page when disabled before the period elapses", func() {
			c.SetAutoPlay(true)
			Expect(c.State().AutoPlayActive).To(BeTrue())
			advance(4 * time.Second)
			c.SetAutoPlay(false)
			Expect(c.State().AutoPlayActive).To(BeFalse())

			advance(20 * time.Second)
			Expect(c.CurrentPage()).To(Equal(0))
			Expect(engine.Len()).To(BeZero())
		})

		It("should advance once per period", func() {
			c.SetAutoPlay(true)
			advance(8 * time.Second)
			Expect(c.CurrentPage()).To(Equal(1))
			Expect(observer.changes).To(Equal([]string{"0->1 forward autoplay"}))

			advance(8 * time.Second)
			Expect(c.CurrentPage()).To(Equal(2))
		})

		It("should restart the timer a full period after manual paging", func() {
			c.SetAutoPlay(true)
			advance(5 * time.Second)
			Expect(c.NextPage()).To(BeTrue())

			// grace 1s + period 8s from t=5s
			advance(8*time.Second + 900*time.Millisecond)
			Expect(c.CurrentPage()).To(Equal(1))

			advance(100 * time.Millisecond)
			Expect(c.CurrentPage()).To(Equal(2))
		})

		It("should not restart auto-play after manual paging when disabled", func() {
			Expect(c.NextPage()).To(BeTrue())
			advance(time.Minute)
			Expect(c.CurrentPage()).To(Equal(1))
			Expect(engine.Len()).To(BeZero())
		})

		It("should suspend while hovered and resume with a full period", func() {
			c.SetAutoPlay(true)
			advance(2 * time.Second)
			c.SetHovered(true)
			Expect(c.AutoPlayEnabled()).To(BeTrue())
			Expect(c.State().AutoPlayActive).To(BeFalse())

			advance(20 * time.Second)
			Expect(c.CurrentPage()).To(Equal(0))

			c.SetHovered(false)
			advance(7 * time.Second)
			Expect(c.CurrentPage()).To(Equal(0))
			advance(time.Second)
			Expect(c.CurrentPage()).To(Equal(1))
		})

		It("should suspend while not visible", func() {
			c.SetAutoPlay(true)
			c.SetVisible(false)
			Expect(c.State().Visible).To(BeFalse())
			advance(time.Minute)
			Expect(c.CurrentPage()).To(Equal(0))

			c.SetVisible(true)
			advance(8 * time.Second)
			Expect(c.CurrentPage()).To(Equal(1))
		})
	})

	Context("auto-play shorter than a transition", func() {
		BeforeEach(func() {
			cfg.AutoPlay = true
			cfg.AutoPlayPeriod = 500 * time.Millisecond
			build(makeItems(15))
		})

		It("should drop ticks that land mid-transition", func() {
			advance(500 * time.Millisecond)
			Expect(c.CurrentPage()).To(Equal(1))

			advance(500 * time.Millisecond)
			Expect(c.CurrentPage()).To(Equal(1))
			Expect(observer.dropped["autoplay"]).To(Equal(1))

			advance(500 * time.Millisecond)
			Expect(c.CurrentPage()).To(Equal(2))
		})
	})

	Context("catalog changes", func() {
		BeforeEach(func() {
			build(makeItems(15))
		})

		It("should clamp the current page when items are removed", func() {
			Expect(c.GotoPage(2)).To(BeTrue())
			advance(transition)

			for _, id := range []string{"t-12", "t-13", "t-14"} {
				Expect(c.RemoveItem(id)).To(BeTrue())
			}
			Expect(c.TotalPages()).To(Equal(2))
			Expect(c.CurrentPage()).To(Equal(1))

			refresh := renderer.last()
			Expect(refresh.Stage).To(Equal(domain.StageRefresh))
			Expect(refresh.Trigger).To(Equal(domain.TriggerCatalog))
			Expect(refresh.Page).To(Equal(1))
			Expect(refresh.ItemIDs()).To(Equal(ids(makeItems(12)[6:])))
		})

		It("should ignore unknown ids", func() {
			Expect(c.RemoveItem("missing")).To(BeFalse())
			Expect(c.TotalPages()).To(Equal(3))
		})

		It("should add items and recompute pages", func() {
			Expect(c.AddItem(domain.Item{ID: "t-01"})).To(BeFalse())
			Expect(c.AddItem(domain.Item{})).To(BeFalse())

			for i := 15; i < 19; i++ {
				Expect(c.AddItem(domain.Item{ID: fmt.Sprintf("t-%02d", i)})).To(BeTrue())
			}
			Expect(c.TotalPages()).To(Equal(4))
			Expect(observer.items).To(Equal(19))
			Expect(observer.pages).To(Equal(4))
			Expect(c.Items()).To(HaveLen(19))
		})

		It("should not re-render when the shown page is unaffected", func() {
			n := len(renderer.frames)
			Expect(c.AddItem(domain.Item{ID: "t-99"})).To(BeTrue())
			Expect(renderer.frames).To(HaveLen(n))
		})

		It("should render catalog changes made mid-transition after settling", func() {
			Expect(c.NextPage()).To(BeTrue())
			Expect(c.RemoveItem("t-06")).To(BeTrue())

			advance(transition)
			Expect(renderer.stages()[len(renderer.frames)-2:]).To(Equal([]domain.Stage{
				domain.StageSettled, domain.StageRefresh,
			}))
			Expect(renderer.last().ItemIDs()).To(Equal(ids(makeItems(13)[7:])))
		})

		removeLastPage := func() {
			for _, id := range []string{"t-12", "t-13", "t-14"} {
				Expect(c.RemoveItem(id)).To(BeTrue())
			}
			Expect(c.CurrentPage()).To(Equal(1))
			Expect(observer.page).To(Equal(1))
		}

		expectPagesInRange := func() {
			for _, f := range renderer.frames {
				Expect(f.Page).To(BeNumerically("<", f.TotalPages), "frame %s", f.Stage)
			}
		}

		It("should enter the clamped page when the target disappears before the swap", func() {
			Expect(c.GotoPage(2)).To(BeTrue())
			removeLastPage()

			n := len(renderer.frames)
			advance(transition)
			expectPagesInRange()

			Expect(renderer.stages()[n:]).To(Equal([]domain.Stage{
				domain.StageEnter, domain.StageSettled,
			}))
			enter := renderer.frames[n]
			Expect(enter.Page).To(Equal(1))
			Expect(enter.TotalPages).To(Equal(2))
			Expect(enter.ItemIDs()).To(Equal(ids(makeItems(12)[6:])))
			Expect(renderer.last().Page).To(Equal(1))
		})

		It("should only refresh when the entered page disappears before settling", func() {
			Expect(c.GotoPage(2)).To(BeTrue())
			advance(500 * time.Millisecond)
			Expect(c.Phase()).To(Equal(carousel.PhaseEnterAnimating))
			removeLastPage()

			n := len(renderer.frames)
			advance(transition)
			expectPagesInRange()

			Expect(renderer.stages()[n:]).To(Equal([]domain.Stage{domain.StageRefresh}))
			refresh := renderer.last()
			Expect(refresh.Page).To(Equal(1))
			Expect(refresh.TotalPages).To(Equal(2))
			Expect(refresh.ItemIDs()).To(Equal(ids(makeItems(12)[6:])))
			Expect(observer.settled).To(HaveLen(1))
			Expect(c.IsTransitioning()).To(BeFalse())
		})
	})

	Context("empty collection", func() {
		BeforeEach(func() {
			cfg.AutoPlay = true
			build(nil)
		})

		It("should degrade to a no-op carousel", func() {
			Expect(c.TotalPages()).To(Equal(0))
			Expect(c.CurrentPage()).To(Equal(0))
			Expect(c.NextPage()).To(BeFalse())
			Expect(c.PreviousPage()).To(BeFalse())
			Expect(c.GotoPage(3)).To(BeFalse())
			Expect(c.CurrentItems()).To(BeEmpty())

			advance(time.Minute)
			Expect(c.CurrentPage()).To(Equal(0))
			Expect(c.IsTransitioning()).To(BeFalse())
		})

		It("should start paging once items arrive", func() {
			Expect(c.AddItem(domain.Item{ID: "a"})).To(BeTrue())
			Expect(c.AddItem(domain.Item{ID: "b"})).To(BeTrue())
			Expect(c.TotalPages()).To(Equal(1))
			Expect(renderer.last().ItemIDs()).To(Equal([]string{"a", "b"}))
			Expect(c.NextPage()).To(BeFalse(), "single page cannot change")
		})
	})

	Context("teardown", func() {
		BeforeEach(func() {
			cfg.AutoPlay = true
			build(makeItems(15))
		})

		It("should cancel pending timers and ignore later calls", func() {
			Expect(c.NextPage()).To(BeTrue())
			Expect(engine.Len()).To(Equal(2))

			c.Close()
			Expect(engine.Len()).To(BeZero())
			Expect(c.IsTransitioning()).To(BeFalse())

			n := len(renderer.frames)
			advance(time.Minute)
			Expect(renderer.frames).To(HaveLen(n))

			Expect(c.NextPage()).To(BeFalse())
			Expect(c.AddItem(domain.Item{ID: "late"})).To(BeFalse())
			Expect(c.RemoveItem("t-00")).To(BeFalse())
			c.SetAutoPlay(true)
			Expect(engine.Len()).To(BeZero())
			Expect(c.State().Closed).To(BeTrue())
			c.Close()
		})
	})

	Context("with a failing renderer", func() {
		var (
			mockCtrl *gomock.Controller
			mock     *MockRenderer
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mock = NewMockRenderer(mockCtrl)
		})

		It("should log render errors and still settle", func() {
			renderErr := errors.New("surface gone")
			gomock.InOrder(
				mock.EXPECT().Render(gomock.Any(), gomock.Cond(func(f domain.Frame) bool {
					return f.Stage == domain.StageRefresh
				})).Return(nil),
				mock.EXPECT().Render(gomock.Any(), gomock.Cond(func(f domain.Frame) bool {
					return f.Stage == domain.StageExit
				})).Return(renderErr),
				mock.EXPECT().Render(gomock.Any(), gomock.Cond(func(f domain.Frame) bool {
					return f.Stage == domain.StageEnter && f.Page == 1
				})).Return(renderErr),
				mock.EXPECT().Render(gomock.Any(), gomock.Cond(func(f domain.Frame) bool {
					return f.Stage == domain.StageSettled
				})).Return(nil),
			)

			c = carousel.New(engine, mock, makeItems(15), cfg)
			c.SetObserver(observer)
			c.Start()

			Expect(c.NextPage()).To(BeTrue())
			advance(transition)

			Expect(c.IsTransitioning()).To(BeFalse())
			Expect(c.CurrentPage()).To(Equal(1))
			Expect(observer.renderErrors).To(Equal(2))
		})
	})
})
