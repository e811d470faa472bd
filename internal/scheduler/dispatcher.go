package scheduler

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/metrics"
	"github.com/arrowkit/flowcore/internal/queue"
	"github.com/arrowkit/flowcore/internal/repository"
)

// Dispatcher joins job_step x flow_step x job x flow each tick, finds
// runnable steps, and fans them round-robin across a fixed set of
// per-worker queues.
type Dispatcher struct {
	jobSteps repository.JobStepRepository
	queues   []*queue.Queue
	logger   *slog.Logger
	interval time.Duration

	cursor int
}

func NewDispatcher(jobSteps repository.JobStepRepository, queues []*queue.Queue, logger *slog.Logger, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		jobSteps: jobSteps,
		queues:   queues,
		logger:   logger.With("component", "dispatcher"),
		interval: interval,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("dispatcher started", "interval", d.interval, "workers", len(d.queues))

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *Dispatcher) Tick(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.DispatcherTickDuration.Observe(time.Since(start).Seconds()) }()

	steps := d.jobSteps.FindLaunchable(ctx)
	if len(steps) == 0 {
		d.logger.Info("no launch steps found, skipping")
		return
	}

	d.logger.Info("processing launch steps", "count", len(steps))
	depths := make([]int, len(d.queues))

	for _, step := range steps {
		order := domain.FromLaunchableStep(&step)
		q := d.queues[d.cursor]
		if err := q.EnqueueOrder(ctx, order); err != nil {
			d.logger.Warn("enqueue failed", "job_step_id", order.JobStepID, "error", err)
			continue
		}
		depths[d.cursor]++
		metrics.DispatchedTotal.Inc()

		d.cursor++
		if d.cursor == len(d.queues) {
			d.cursor = 0
		}
	}

	for i, depth := range depths {
		metrics.DispatchQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(depth))
	}
}

// shutdown delivers one POISON to each worker queue so every worker
// drains its executor and exits cleanly.
func (d *Dispatcher) shutdown() {
	d.logger.Info("dispatcher shutting down, poisoning queues")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i, q := range d.queues {
		if err := q.Poison(ctx); err != nil {
			d.logger.Warn("failed to poison queue", "worker_index", i, "error", err)
		}
	}
}
