package repository

import (
	"context"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
)

// JobForm carries the values needed to insert one Job row.
type JobForm struct {
	Name    string
	FlowID  int64
	Status  domain.JobStatus
	StartDt *time.Time
}

// JobRepository owns the job table: creation by the Flow Controller, the
// N -> S/F transition once its JobSteps are seeded, and the set of N jobs
// still awaiting step materialization.
type JobRepository interface {
	Insert(ctx context.Context, form JobForm) (*domain.Job, error)
	FindNew(ctx context.Context) []domain.NewJob
	SetStatus(ctx context.Context, jobID int64, status domain.JobStatus, ts time.Time) error
}
