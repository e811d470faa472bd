package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/arrowkit/flowcore/internal/cronspec"
	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/executor"
	"github.com/arrowkit/flowcore/internal/metrics"
	"github.com/arrowkit/flowcore/internal/queue"
	"github.com/arrowkit/flowcore/internal/repository"
)

// Worker owns one queue, one executor for scheduled one-shots, and a
// private Store connection used only by this worker.
type Worker struct {
	id         string
	queue      *queue.Queue
	executor   *executor.Executor
	jobSteps   repository.JobStepRepository
	buildTool  string
	configName string
	logger     *slog.Logger
}

func NewWorker(id string, q *queue.Queue, jobSteps repository.JobStepRepository, buildTool, configName string, logger *slog.Logger) *Worker {
	return &Worker{
		id:         id,
		queue:      q,
		executor:   executor.New(),
		jobSteps:   jobSteps,
		buildTool:  buildTool,
		configName: configName,
		logger:     logger.With("worker_id", id),
	}
}

// Run consumes the worker's queue until a Poison item arrives or ctx is
// cancelled. It owns no goroutines of its own beyond the scheduled-path
// one-shots registered with its executor.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker starting")
	defer func() {
		w.executor.Stop()
		w.logger.Info("worker shutting down")
	}()

	for {
		item, err := w.queue.Dequeue(ctx)
		if err != nil {
			return
		}

		switch item.Kind {
		case queue.Poison:
			return
		case queue.Flush:
			w.logger.Info("flush received", "pending_scheduled", w.executor.Pending())
			continue
		case queue.Live:
			w.handle(ctx, item.Order)
		}
	}
}

func (w *Worker) handle(ctx context.Context, order domain.WorkOrder) {
	if order.StatusCd != domain.JobStepSeeded {
		w.logger.Warn("next job - status is not seeded", "job_step_id", order.JobStepID, "status", order.StatusCd)
		return
	}
	if order.SubjectID == nil {
		w.logger.Warn("next job - subject id is invalid", "job_step_id", order.JobStepID)
		return
	}
	if order.ScriptName == "" {
		w.logger.Warn("next job - script name is invalid", "job_step_id", order.JobStepID)
		return
	}

	if order.JobStart != nil {
		w.scheduled(ctx, order)
	} else {
		w.adHoc(ctx, order)
	}
}

// scheduled registers a one-shot with the worker's executor for job_start
// and flips the step to R immediately rather than on callback fire: the
// flip records "dispatched", not "completed".
func (w *Worker) scheduled(ctx context.Context, order domain.WorkOrder) {
	w.logger.Info("scheduler start", "job_step_id", order.JobStepID)

	result := Assemble(w.buildTool, order, w.configName, w.logger)
	if !result.OK {
		return
	}

	jobName := fmt.Sprintf("job step %d", order.JobStepID)
	fireAt := *order.JobStart
	w.executor.AddJob(jobName, fireAt, func() {
		w.run(ctx, order.JobStepID, result.Args)
	})

	cronStr := cronspec.Build7(fireAt)
	w.logger.Info("registered scheduled trigger", "job_step_id", order.JobStepID, "trigger", cronStr)

	now := time.Now().UTC()
	if err := w.jobSteps.SetRunning(ctx, order.JobStepID, "", now); err != nil {
		w.logger.Error("failed to update job step", "job_step_id", order.JobStepID, "error", err)
		return
	}
	w.logger.Info("successfully scheduled job step", "job_step_id", order.JobStepID)
	metrics.JobStepsDispatched.WithLabelValues("scheduled").Inc()
}

// adHoc runs the script synchronously in the worker's loop. No status
// mutation happens here: the invoked script is expected to transition its
// own job_step to C or F.
func (w *Worker) adHoc(ctx context.Context, order domain.WorkOrder) {
	w.logger.Info("ad-hoc execution start", "job_step_id", order.JobStepID)

	result := Assemble(w.buildTool, order, w.configName, w.logger)
	if !result.OK {
		return
	}

	w.run(ctx, order.JobStepID, result.Args)
	w.logger.Info("ad-hoc execution complete", "job_step_id", order.JobStepID)
	metrics.JobStepsDispatched.WithLabelValues("ad_hoc").Inc()
}

func (w *Worker) run(ctx context.Context, jobStepID int64, args []string) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, w.buildTool, args...)
	if err := cmd.Run(); err != nil {
		w.logger.Error("child process failed", "job_step_id", jobStepID, "error", err, "duration", time.Since(start))
		metrics.ChildProcessFailures.Inc()
		return
	}
	metrics.ChildProcessDuration.Observe(time.Since(start).Seconds())
}
