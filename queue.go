package taskq

import (
	"sync"
)

// Queue is a fixed-capacity FIFO hand-off buffer shared by producers and
// consumers.
//
// Enqueue blocks while the queue is full, Dequeue blocks while it is empty,
// and Close releases both sides: blocked producers fail with ErrQueueClosed,
// consumers drain the remaining items and then observe the drained signal.
// Items come out strictly in the order they went in, each exactly once.
// No priorities, no aging, no reordering.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond // signaled when a slot frees up or the queue closes
	notEmpty *sync.Cond // signaled when an item arrives or the queue closes

	buf        []T // circular buffer
	head, tail int // read/write indices
	size       int // number of items currently buffered
	capacity   int

	closed bool
}

// NewQueue creates a queue with the given capacity. The capacity is fixed
// for the queue's lifetime and determines how many items can be buffered
// before Enqueue starts blocking. Values below one fall back to
// DefaultQueueCapacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &Queue[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue inserts item at the tail, blocking while the queue is full.
// It returns ErrQueueClosed once Close has been called, including for
// producers that were already blocked at that moment.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == q.capacity && !q.closed {
		statEnqueueWait()
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}
	q.push(item)
	q.notEmpty.Signal()
	return nil
}

// TryEnqueue is the non-blocking variant. It reports false when the queue
// is full or closed.
func (q *Queue[T]) TryEnqueue(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.size == q.capacity {
		return false
	}
	q.push(item)
	q.notEmpty.Signal()
	return true
}

// Dequeue removes and returns the oldest item, blocking while the queue is
// empty and open. The second return value is false only when the queue is
// closed and fully drained; consumers treat it as the end of work, not as
// an error.
func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == 0 && !q.closed {
		statDequeueWait()
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		var zero T
		return zero, false
	}
	item := q.pop()
	q.notFull.Signal()
	return item, true
}

// Close marks the queue closed and wakes everyone blocked on it.
// Idempotent. Items already accepted remain dequeueable.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Len returns the number of items currently buffered.
// Intended for cold-path observation; the value may be stale on arrival.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int { return q.capacity }

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// push and pop assume q.mu is held and bounds were already checked.

func (q *Queue[T]) push(item T) {
	q.buf[q.tail] = item
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

func (q *Queue[T]) pop() T {
	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // drop the reference so GC can reclaim the payload
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return item
}
