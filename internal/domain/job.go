package domain

import (
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

// JobStatus is the single-letter status code persisted on the job table.
type JobStatus string

const (
	JobNew    JobStatus = "N"
	JobSeeded JobStatus = "S"
	JobFailed JobStatus = "F"
)

// Job is one concrete instance of a Flow scheduled for a particular dated
// trigger.
type Job struct {
	ID      int64
	Name    string
	FlowID  int64
	Status  JobStatus
	StartDt *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewJob is the projection find_new_jobs() returns.
type NewJob struct {
	JobID   int64
	Name    string
	FlowID  int64
	StartDt *time.Time
}
