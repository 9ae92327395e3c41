// Package audio provides a clocked audio pipeline: per-device sample
// producers push timestamped frames into a shared mixer, which sums and
// clamps them into a single output stream a host can drain.
package audio

import (
	"sync"

	"github.com/user-none/go-retrocore/clock"
)

// timedItem pairs a value with the Instant it was produced at.
type timedItem[T any] struct {
	at   clock.Instant
	data T
}

// ClockedQueue is a thread-safe FIFO of Instant-stamped values, bounded
// to max items (oldest dropped first). A producing device pushes; a
// consumer (the mixer, or a host sink) pops in order, optionally
// putting a partially-consumed item back at the front.
type ClockedQueue[T any] struct {
	mu    sync.Mutex
	items []timedItem[T]
	max   int
}

// NewClockedQueue returns an empty queue holding at most max items.
func NewClockedQueue[T any](max int) *ClockedQueue[T] {
	return &ClockedQueue[T]{max: max}
}

// Push appends data stamped at, dropping the oldest item if the queue
// is already at capacity.
func (q *ClockedQueue[T]) Push(at clock.Instant, data T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.max {
		q.items = q.items[1:]
	}
	q.items = append(q.items, timedItem[T]{at: at, data: data})
}

// PopNext removes and returns the oldest item.
func (q *ClockedQueue[T]) PopNext() (clock.Instant, T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return clock.Instant{}, zero, false
	}
	it := q.items[0]
	q.items = q.items[1:]
	return it.at, it.data, true
}

// PopLatest drains the queue, returning only the most recently pushed
// item.
func (q *ClockedQueue[T]) PopLatest() (clock.Instant, T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return clock.Instant{}, zero, false
	}
	it := q.items[len(q.items)-1]
	q.items = q.items[:0]
	return it.at, it.data, true
}

// PutBack pushes data back onto the front of the queue, for a consumer
// that only partially consumed it.
func (q *ClockedQueue[T]) PutBack(at clock.Instant, data T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]timedItem[T]{{at: at, data: data}}, q.items...)
}

// PeekClock returns the Instant of the oldest queued item.
func (q *ClockedQueue[T]) PeekClock() (clock.Instant, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return clock.Instant{}, false
	}
	return q.items[0].at, true
}

// IsEmpty reports whether the queue holds no items.
func (q *ClockedQueue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the number of items currently queued.
func (q *ClockedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
