package repository

import (
	"context"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
)

// JobStepForm carries the values needed to insert one JobStep row,
// materialized from a FlowStep template.
type JobStepForm struct {
	JobID      int64
	FlowStepID int64
	SequenceID int
	InputPath  string
	OutputPath string
	Command    string
	Status     domain.JobStepStatus
}

// JobStepRepository owns the job_step table: seeding from FlowStep
// templates, first-step launch promotion, the join that finds dispatch-
// ready steps, and the worker's S -> R transition.
type JobStepRepository interface {
	Insert(ctx context.Context, form JobStepForm) (*domain.JobStep, error)

	// PromoteFirstSteps performs the Job Step Launcher's single
	// conditional update: every job_step with sequence_id=1, status='N',
	// whose job is in status 'S', transitions to 'S'. It returns the
	// number of steps promoted.
	PromoteFirstSteps(ctx context.Context, ts time.Time) (int, error)

	FindLaunchable(ctx context.Context) []domain.LaunchableStep

	// SetRunning is the worker's conditional S -> R transition: it only
	// takes effect if the step is still in status 'S'.
	SetRunning(ctx context.Context, jobStepID int64, command string, ts time.Time) error
}
