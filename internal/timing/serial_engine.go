package timing

import (
	"fmt"
	"sync"
	"time"
)

// SerialEngine processes scheduled events sequentially on a virtual clock.
// Time only moves when Run, RunUntil or Advance is called.
type SerialEngine struct {
	*HookableBase

	mu    sync.Mutex
	now   VTime
	queue *eventQueue

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine starting at time zero.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: NewHookableBase(),
		queue:        newEventQueue(),
	}
}

// Schedule registers an event to be handled in the future.
func (e *SerialEngine) Schedule(evt ScheduledEvent) EventID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if evt.Time < e.now {
		panic(fmt.Sprintf(
			"timing: cannot schedule event in the past, evt %T @ %s, now %s",
			evt.Event, evt.Time, e.now,
		))
	}

	return e.queue.Push(evt)
}

// Cancel removes a pending event.
func (e *SerialEngine) Cancel(id EventID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Remove(id)
}

// CurrentTime returns the time of the most recently dispatched event, or the
// time last passed to RunUntil.
func (e *SerialEngine) CurrentTime() VTime {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// Len returns the number of pending events.
func (e *SerialEngine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// Run processes all scheduled events until the queue is empty. A handler
// that keeps rescheduling itself makes Run loop forever; use RunUntil for
// repeating timers.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		evt := e.next(-1)
		if evt == nil {
			return nil
		}
		e.dispatch(evt)
	}
}

// RunUntil processes every event due at or before t, then moves the clock
// to t.
func (e *SerialEngine) RunUntil(t VTime) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		evt := e.next(t)
		if evt == nil {
			break
		}
		e.dispatch(evt)
	}

	e.mu.Lock()
	if t > e.now {
		e.now = t
	}
	e.mu.Unlock()
	return nil
}

// Advance runs the engine for d of virtual time.
func (e *SerialEngine) Advance(d time.Duration) error {
	return e.RunUntil(e.CurrentTime().After(d))
}

// next pops the earliest event. A negative limit means no limit.
func (e *SerialEngine) next(limit VTime) *ScheduledEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	head := e.queue.Peek()
	if head == nil || (limit >= 0 && head.Time > limit) {
		return nil
	}

	fe := e.queue.Pop()
	e.now = fe.Time
	evt := fe.ScheduledEvent
	return &evt
}

func (e *SerialEngine) dispatch(evt *ScheduledEvent) {
	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   *evt,
	}
	e.InvokeHook(hookCtx)

	var err error
	if evt.Handler != nil {
		err = evt.Handler.Handle(evt.Event)
	}

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = err
	e.InvokeHook(hookCtx)
}
