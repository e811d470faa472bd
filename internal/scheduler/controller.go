package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arrowkit/flowcore/internal/cronspec"
	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/metrics"
	"github.com/arrowkit/flowcore/internal/repository"
)

// Controller runs the Flow Controller tick: cron expansion into Jobs,
// JobStep seeding, and (embedded) the Job Step Launcher's first-step
// promotion.
type Controller struct {
	flows     repository.FlowRepository
	flowSteps repository.FlowStepRepository
	jobs      repository.JobRepository
	jobSteps  repository.JobStepRepository
	logger    *slog.Logger
	interval  time.Duration
}

func NewController(
	flows repository.FlowRepository,
	flowSteps repository.FlowStepRepository,
	jobs repository.JobRepository,
	jobSteps repository.JobStepRepository,
	logger *slog.Logger,
	interval time.Duration,
) *Controller {
	return &Controller{
		flows:     flows,
		flowSteps: flowSteps,
		jobs:      jobs,
		jobSteps:  jobSteps,
		logger:    logger.With("component", "flow_controller"),
		interval:  interval,
	}
}

func (c *Controller) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("flow controller started", "interval", c.interval)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("flow controller shut down")
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

func (c *Controller) Tick(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.FlowControllerTickDuration.Observe(time.Since(start).Seconds()) }()

	c.seedFlows(ctx)
	c.seedJobSteps(ctx)
	c.launchFirstSteps(ctx)
}

// seedFlows expands every seedable flow's cron frequency into today's
// Jobs, then marks the flow seeded regardless of how many inserts
// succeeded. Flows without a topic or with an unparseable frequency are
// skipped without the seeded mark, so they are retried next tick.
func (c *Controller) seedFlows(ctx context.Context) {
	flows := c.flows.FindSeedable(ctx)
	if len(flows) == 0 {
		c.logger.Info("no seedable flows found")
		return
	}

	now := time.Now().UTC()
	today := now

	for _, flow := range flows {
		schedule, err := cronspec.Parse(flow.Frequency)
		if err != nil {
			c.logger.Info("schedule cannot be parsed", "frequency", flow.Frequency, "error", err)
			continue
		}

		if flow.TopicID == nil {
			c.logger.Info("FLG: no topic id", "flow_id", flow.FlowID, "flow_name", flow.Name)
			metrics.FlowsSeededTotal.WithLabelValues("skipped_no_topic").Inc()
			continue
		}

		triggers := schedule.UpcomingOn(now, today, time.UTC)

		for n, trigger := range triggers {
			jobName := fmt.Sprintf("%d_%s_%s_%d",
				*flow.TopicID,
				strings.ReplaceAll(flow.Name, "-", "_"),
				today.Format("2006_01_02"),
				n,
			)

			scheduledDt := trigger

			form := repository.JobForm{
				Name:    jobName,
				FlowID:  flow.FlowID,
				Status:  domain.JobNew,
				StartDt: &scheduledDt,
			}

			job, err := c.jobs.Insert(ctx, form)
			if err != nil {
				c.logger.Info("job insert failed", "flow_id", flow.FlowID, "error", err)
				continue
			}
			c.logger.Info("job created", "job_name", jobName, "flow_id", flow.FlowID, "job_id", job.ID)
			metrics.JobsCreatedTotal.WithLabelValues(flow.Name).Inc()
		}

		if err := c.flows.MarkSeeded(ctx, flow.FlowID, now); err != nil {
			c.logger.Error("mark flow seeded failed", "flow_id", flow.FlowID, "error", err)
			metrics.FlowsSeededTotal.WithLabelValues("mark_failed").Inc()
			continue
		}
		metrics.FlowsSeededTotal.WithLabelValues("seeded").Inc()
	}
}

// seedJobSteps materializes JobSteps for every Job still in N from its
// Flow's FlowStep template, then resolves the Job to S or F.
func (c *Controller) seedJobSteps(ctx context.Context) {
	jobs := c.jobs.FindNew(ctx)
	if len(jobs) == 0 {
		return
	}

	now := time.Now().UTC()

	for _, job := range jobs {
		steps := c.flowSteps.FindByFlow(ctx, job.FlowID)
		k := len(steps)

		seeded := 0
		for _, step := range steps {
			form := repository.JobStepForm{
				JobID:      job.JobID,
				FlowStepID: step.ID,
				SequenceID: step.SequenceID,
				InputPath:  step.InputDir,
				OutputPath: step.OutputDir,
				Command:    "",
				Status:     domain.JobStepNew,
			}
			if _, err := c.jobSteps.Insert(ctx, form); err != nil {
				c.logger.Info("job step insert failed", "job_id", job.JobID, "flow_step_id", step.ID, "error", err)
				continue
			}
			seeded++
		}

		status := domain.JobFailed
		outcome := "F"
		if seeded == k {
			status = domain.JobSeeded
			outcome = "S"
		}

		if err := c.jobs.SetStatus(ctx, job.JobID, status, now); err != nil {
			c.logger.Error("set job status failed", "job_id", job.JobID, "error", err)
			continue
		}
		c.logger.Info("job steps seeded", "job_id", job.JobID, "seeded", seeded, "total", k, "outcome", outcome)
		metrics.JobSeedOutcomeTotal.WithLabelValues(outcome).Inc()
	}
}

// launchFirstSteps is the Job Step Launcher: a single conditional update
// promoting every sequence=1, status=N job_step whose job is already S.
func (c *Controller) launchFirstSteps(ctx context.Context) {
	now := time.Now().UTC()
	promoted, err := c.jobSteps.PromoteFirstSteps(ctx, now)
	if err != nil {
		c.logger.Error("promote first steps failed", "error", err)
		return
	}
	if promoted > 0 {
		c.logger.Info("promoted first steps", "count", promoted)
	}
	metrics.JobStepsPromotedTotal.Add(float64(promoted))
}
