package host

import (
	"sync/atomic"

	"github.com/ik5/beatstretch/stretch"
)

// EventQueue is a bounded stretch.EventSink. Emit never blocks; events
// that do not fit are counted and dropped.
type EventQueue struct {
	ch      chan stretch.Event
	dropped atomic.Uint64
}

// NewEventQueue buffers up to size events.
func NewEventQueue(size int) *EventQueue {
	return &EventQueue{ch: make(chan stretch.Event, size)}
}

// Emit queues e, or drops it when the queue is full.
func (q *EventQueue) Emit(e stretch.Event) {
	select {
	case q.ch <- e:
	default:
		q.dropped.Add(1)
	}
}

// Events returns the channel queued events are read from.
func (q *EventQueue) Events() <-chan stretch.Event {
	return q.ch
}

// Dropped reports how many events did not fit in the queue.
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
