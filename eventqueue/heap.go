package eventqueue

import (
	"container/heap"
	"errors"
)

// ErrEmptyQueue is returned by Pop on an empty queue. This is a
// programmer-error class: callers should check IsEmpty (or Peek)
// before popping in steady state.
var ErrEmptyQueue = errors.New("eventqueue: pop on empty queue")

// eventHeap implements container/heap.Interface with deterministic
// ordering: timestamp, then priority, then insertion order.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue is a priority queue of tool-start and request-arrival Events ordered by (timestamp,
// priority, insertion order). Push and Pop are O(log n).
type Queue struct {
	h       eventHeap
	nextSeq uint64
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push schedules an event. Its insertion-order tie-break is assigned
// here, so callers never set Event.seq themselves.
func (q *Queue) Push(e *Event) {
	e.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, e)
}

// Pop removes and returns the earliest-ordered event, or ErrEmptyQueue
// if the queue is empty.
func (q *Queue) Pop() (*Event, error) {
	if len(q.h) == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(&q.h).(*Event), nil
}

// Peek returns the earliest-ordered event without removing it, or nil
// if the queue is empty.
func (q *Queue) Peek() *Event {
	if len(q.h) == 0 {
		return nil
	}
	return q.h[0]
}

// Size returns the number of pending events.
func (q *Queue) Size() int { return len(q.h) }

// IsEmpty reports whether the queue has no pending events.
func (q *Queue) IsEmpty() bool { return len(q.h) == 0 }
