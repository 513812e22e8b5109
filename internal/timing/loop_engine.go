package timing

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrEngineStopped is returned when work is submitted to a stopped LoopEngine.
var ErrEngineStopped = errors.New("timing: engine stopped")

// LoopEngine dispatches events on the wall clock from a single goroutine.
// Scheduled events and functions submitted with Do all run on that
// goroutine, one at a time.
type LoopEngine struct {
	*HookableBase

	mu      sync.Mutex
	origin  time.Time
	queue   *eventQueue
	started bool
	stopped bool

	tasks chan func()
	wake  chan struct{}
	quit  chan struct{}
	done  chan struct{}

	stopOnce sync.Once
}

// NewLoopEngine creates a LoopEngine. Call Start to begin dispatching.
func NewLoopEngine() *LoopEngine {
	return &LoopEngine{
		HookableBase: NewHookableBase(),
		origin:       time.Now(),
		queue:        newEventQueue(),
		tasks:        make(chan func(), 64),
		wake:         make(chan struct{}, 1),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// CurrentTime returns the wall-clock time elapsed since the engine was created.
func (e *LoopEngine) CurrentTime() VTime {
	return VTime(time.Since(e.origin))
}

// Schedule registers an event. Events scheduled in the past run as soon as
// the loop is free. Scheduling on a stopped engine returns the zero EventID.
func (e *LoopEngine) Schedule(evt ScheduledEvent) EventID {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return 0
	}
	id := e.queue.Push(evt)
	e.mu.Unlock()

	e.signal()
	return id
}

// Cancel removes a pending event.
func (e *LoopEngine) Cancel(id EventID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Remove(id)
}

// Len returns the number of pending events.
func (e *LoopEngine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// Start launches the loop goroutine. It returns when ctx is cancelled or
// Stop is called. Calling Start twice has no effect.
func (e *LoopEngine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	go e.run(ctx)
}

// Stop terminates the loop and waits for it to exit. Pending events are
// discarded.
func (e *LoopEngine) Stop() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		started := e.started
		e.mu.Unlock()

		close(e.quit)
		if !started {
			close(e.done)
		}
	})
	<-e.done
}

// Done is closed once the loop has exited.
func (e *LoopEngine) Done() <-chan struct{} {
	return e.done
}

// Do runs fn on the loop goroutine and waits for it to return. It must not
// be called from inside a handler, as the loop would wait on itself.
func (e *LoopEngine) Do(ctx context.Context, fn func()) error {
	if e.isStopped() {
		return ErrEngineStopped
	}

	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case e.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrEngineStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		// The loop may have run the task right before exiting.
		select {
		case <-finished:
			return nil
		default:
			return ErrEngineStopped
		}
	}
}

func (e *LoopEngine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *LoopEngine) run(ctx context.Context) {
	defer close(e.done)
	defer e.markStopped()

	for {
		e.dispatchDue()

		var timerC <-chan time.Time
		var timer *time.Timer
		if wait, ok := e.nextWait(); ok {
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return
		case <-e.quit:
			stopTimer(timer)
			return
		case fn := <-e.tasks:
			fn()
		case <-e.wake:
		case <-timerC:
		}
		stopTimer(timer)
	}
}

func (e *LoopEngine) isStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

func (e *LoopEngine) markStopped() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
}

func (e *LoopEngine) nextWait() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	head := e.queue.Peek()
	if head == nil {
		return 0, false
	}
	wait := time.Duration(head.Time - e.CurrentTime())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

func (e *LoopEngine) dispatchDue() {
	for {
		e.mu.Lock()
		head := e.queue.Peek()
		if head == nil || head.Time > e.CurrentTime() {
			e.mu.Unlock()
			return
		}
		evt := e.queue.Pop().ScheduledEvent
		e.mu.Unlock()

		hookCtx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
		e.InvokeHook(hookCtx)

		var err error
		if evt.Handler != nil {
			err = evt.Handler.Handle(evt.Event)
		}

		hookCtx.Pos = HookPosAfterEvent
		hookCtx.Detail = err
		e.InvokeHook(hookCtx)
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
