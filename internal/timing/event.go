// Package timing provides the scheduler primitive the carousel runs on.
//
// Every callback is an event delivered to a Handler. Engines dispatch events
// one at a time, so handlers never run concurrently with each other. Two
// engines share the same scheduling API:
//
//   - SerialEngine keeps virtual time and only advances when told to. Tests
//     and the simulation CLI use it to step through transitions exactly.
//   - LoopEngine runs on the wall clock in a single goroutine and lets other
//     goroutines hop onto it with Do.
package timing

import (
	"fmt"
	"time"
)

// VTime is the engine's notion of time, measured from the engine start.
type VTime time.Duration

// Duration converts v to a time.Duration.
func (v VTime) Duration() time.Duration {
	return time.Duration(v)
}

func (v VTime) String() string {
	return time.Duration(v).String()
}

// After returns the time d after v.
func (v VTime) After(d time.Duration) VTime {
	return v + VTime(d)
}

// Handler processes events of various types.
// Events are plain data structs; handlers type-switch on them:
//
//	func (h *MyHandler) Handle(event any) error {
//	    switch e := event.(type) {
//	    case *MyEvent:
//	        // handle MyEvent
//	    default:
//	        return fmt.Errorf("unknown event type: %T", event)
//	    }
//	    return nil
//	}
type Handler interface {
	Handle(event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event any) error

// Handle calls f(event).
func (f HandlerFunc) Handle(event any) error {
	return f(event)
}

// EventID identifies a scheduled event so it can be cancelled.
// The zero value never identifies an event.
type EventID uint64

// TimeTeller exposes the current engine time.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler schedules and cancels events on the engine timeline.
type EventScheduler interface {
	TimeTeller
	Schedule(event ScheduledEvent) EventID
	Cancel(id EventID) bool
}

// ScheduledEvent is the engine-facing wrapper for user-defined events.
type ScheduledEvent struct {
	// Event is the payload delivered to the handler.
	Event any

	// Time is when the event should be processed.
	Time VTime

	// Handler is the component that will process this event.
	Handler Handler
}

func (e ScheduledEvent) String() string {
	return fmt.Sprintf("%T@%s", e.Event, e.Time)
}
