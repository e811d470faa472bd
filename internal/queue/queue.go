// Package queue implements the per-worker blocking queue the Worker
// Dispatcher hands WorkOrders to. Control signals (poison, flush) are
// their own item kind instead of magic job_step_id values that could
// collide with a real id.
package queue

import (
	"context"

	"github.com/arrowkit/flowcore/internal/domain"
)

// Kind distinguishes a real dispatch from the two control signals a
// worker's queue can carry alongside it.
type Kind int

const (
	// Live carries a real WorkOrder to execute.
	Live Kind = iota
	// Poison tells the worker to stop consuming and exit its run loop.
	Poison
	// Flush wakes a worker without handing it any work; the worker
	// reports its pending scheduled jobs and keeps consuming.
	Flush
)

// Item is one entry on a worker's queue.
type Item struct {
	Kind  Kind
	Order domain.WorkOrder
}

// Queue is a bounded FIFO channel-backed queue with one producer (the
// dispatcher) and one consumer (the worker that owns it).
type Queue struct {
	items chan Item
}

// New creates a queue with the given buffer size. A size of 0 makes
// Enqueue block until the worker is ready to receive.
func New(buffer int) *Queue {
	return &Queue{items: make(chan Item, buffer)}
}

// Enqueue pushes an item, blocking until there is room or ctx is done.
func (q *Queue) Enqueue(ctx context.Context, item Item) error {
	select {
	case q.items <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueOrder is a convenience wrapper for dispatching a real WorkOrder.
func (q *Queue) EnqueueOrder(ctx context.Context, order domain.WorkOrder) error {
	return q.Enqueue(ctx, Item{Kind: Live, Order: order})
}

// Poison requests that the owning worker stop once it dequeues this item;
// items enqueued before it are still handled first.
func (q *Queue) Poison(ctx context.Context) error {
	return q.Enqueue(ctx, Item{Kind: Poison})
}

// Dequeue blocks until an item is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (Item, error) {
	select {
	case item := <-q.items:
		return item, nil
	case <-ctx.Done():
		return Item{}, ctx.Err()
	}
}
