package audit

import (
	"context"
	"fmt"
	"sync"
)

// Queue is the unbounded multi-producer multi-consumer FIFO that decouples
// transaction ingestion from packing. Producers never block on capacity and
// consumers never block on emptiness.
//
// A mutex-guarded slice is used instead of a channel so that DrainUpTo can
// remove a contiguous head segment atomically and Len reflects the exact
// depth at the moment of the check.
type Queue struct {
	mu    sync.Mutex
	items []Tx
}

// NewQueue creates an empty ingestion queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Put appends a transaction to the tail of the queue. Fails with
// ErrIngestFailed only when ctx is already cancelled, in which case the
// transaction is not enqueued and the cancellation cause is wrapped into the
// returned error.
func (q *Queue) Put(ctx context.Context, tx Tx) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrIngestFailed, context.Cause(ctx))
	}

	q.mu.Lock()
	q.items = append(q.items, tx)
	q.mu.Unlock()
	return nil
}

// DrainUpTo removes and returns up to n items from the head of the queue in
// FIFO order. Returns an empty slice when the queue is empty or n <= 0.
func (q *Queue) DrainUpTo(n int) []Tx {
	if n <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}

	out := make([]Tx, n)
	copy(out, q.items[:n])

	// Zero the drained prefix so the shared backing array does not pin ids
	clear(q.items[:n])
	q.items = q.items[n:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return out
}

// Len returns the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
