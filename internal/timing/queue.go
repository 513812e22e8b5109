package timing

import "container/heap"

type futureEvent struct {
	ScheduledEvent
	id    EventID
	seq   uint64
	index int
}

// eventQueue orders events by time, then by scheduling order. It is not
// safe for concurrent use; engines guard it with their own lock.
type eventQueue struct {
	events futureEventHeap
	byID   map[EventID]*futureEvent
	nextID uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		events: make(futureEventHeap, 0),
		byID:   make(map[EventID]*futureEvent),
	}
	heap.Init(&q.events)
	return q
}

func (q *eventQueue) Push(evt ScheduledEvent) EventID {
	q.nextID++
	fe := &futureEvent{
		ScheduledEvent: evt,
		id:             EventID(q.nextID),
		seq:            q.nextID,
	}
	heap.Push(&q.events, fe)
	q.byID[fe.id] = fe
	return fe.id
}

func (q *eventQueue) Pop() *futureEvent {
	if q.events.Len() == 0 {
		return nil
	}
	fe := heap.Pop(&q.events).(*futureEvent)
	delete(q.byID, fe.id)
	return fe
}

func (q *eventQueue) Peek() *futureEvent {
	if q.events.Len() == 0 {
		return nil
	}
	return q.events[0]
}

// Remove drops a pending event. It reports false if the event already ran
// or was never scheduled.
func (q *eventQueue) Remove(id EventID) bool {
	fe, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&q.events, fe.index)
	delete(q.byID, id)
	return true
}

func (q *eventQueue) Len() int {
	return q.events.Len()
}

type futureEventHeap []*futureEvent

func (h futureEventHeap) Len() int { return len(h) }

func (h futureEventHeap) Less(i, j int) bool {
	if h[i].Time == h[j].Time {
		return h[i].seq < h[j].seq
	}
	return h[i].Time < h[j].Time
}

func (h futureEventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *futureEventHeap) Push(x any) {
	evt := x.(*futureEvent)
	evt.index = len(*h)
	*h = append(*h, evt)
}

func (h *futureEventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	evt.index = -1
	*h = old[:n-1]
	return evt
}
