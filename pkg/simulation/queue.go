package simulation

import "container/heap"

// eventQueue is a min-heap of events ordered by time. Events at the same
// instant are processed arrivals first, then in the order they were scheduled.
type eventQueue struct {
	events     eventHeap
	nextSeq    uint64
	departures int
}

func newEventQueue() *eventQueue {
	q := &eventQueue{events: make(eventHeap, 0, 4)}
	heap.Init(&q.events)
	return q
}

// schedule adds an event and stamps its sequence number
func (q *eventQueue) schedule(ev Event) {
	ev.seq = q.nextSeq
	q.nextSeq++
	if ev.Kind == Departure {
		q.departures++
	}
	heap.Push(&q.events, ev)
}

// next removes and returns the earliest event
func (q *eventQueue) next() (Event, bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	ev := heap.Pop(&q.events).(Event)
	if ev.Kind == Departure {
		q.departures--
	}
	return ev, true
}

// Len returns the number of pending events
func (q *eventQueue) Len() int {
	return q.events.Len()
}

// pendingDepartures returns the number of departure events still queued
func (q *eventQueue) pendingDepartures() int {
	return q.departures
}

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	if h[i].Kind != h[j].Kind {
		return h[i].Kind < h[j].Kind
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}
