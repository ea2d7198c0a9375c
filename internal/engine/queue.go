package engine

import (
	"sync"
)

// emissionQueue is a thread-safe FIFO queue of emissions.
//
// The queue is unbounded so that scoring never blocks on a slow sink.
// A buffered signal channel lets the dispatcher wait with a context.
type emissionQueue struct {
	mu     sync.Mutex
	items  []Emission
	closed bool
	signal chan struct{} // buffered, size 1
}

func newEmissionQueue() *emissionQueue {
	return &emissionQueue{
		items:  make([]Emission, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an emission to the back of the queue.
// Returns false if the queue is closed.
func (q *emissionQueue) Enqueue(e Emission) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, e)

	// Non-blocking; the size-1 buffer coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front emission without blocking.
func (q *emissionQueue) TryDequeue() (Emission, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Emission{}, false
	}
	e := q.items[0]
	// Clear the slot so the snapshot can be collected.
	q.items[0] = Emission{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return e, true
}

// Wait returns a channel that signals when emissions may be available.
// The channel is closed when the queue is closed.
func (q *emissionQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *emissionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops further enqueues and wakes any waiter.
func (q *emissionQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
