package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/queue"
)

func TestQueue_EnqueueDequeueOrder(t *testing.T) {
	q := queue.New(1)
	ctx := context.Background()

	order := domain.WorkOrder{JobStepID: 42}
	if err := q.EnqueueOrder(ctx, order); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	item, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if item.Kind != queue.Live {
		t.Fatalf("expected Live, got %v", item.Kind)
	}
	if item.Order.JobStepID != 42 {
		t.Fatalf("expected job_step_id 42, got %d", item.Order.JobStepID)
	}
}

func TestQueue_Poison(t *testing.T) {
	q := queue.New(1)
	ctx := context.Background()

	if err := q.Poison(ctx); err != nil {
		t.Fatalf("poison: %v", err)
	}
	item, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if item.Kind != queue.Poison {
		t.Fatalf("expected Poison, got %v", item.Kind)
	}
}

func TestQueue_DequeueRespectsContextCancellation(t *testing.T) {
	q := queue.New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}
