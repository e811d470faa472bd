package domain

import "time"

// JobStepStatus is the single-letter status code persisted on the
// job_step table: N=new, S=seeded/scheduled, R=running, C=completed,
// F=failed.
type JobStepStatus string

const (
	JobStepNew       JobStepStatus = "N"
	JobStepSeeded    JobStepStatus = "S"
	JobStepRunning   JobStepStatus = "R"
	JobStepCompleted JobStepStatus = "C"
	JobStepFailed    JobStepStatus = "F"
)

// JobStep is one concrete execution of a FlowStep inside a Job.
type JobStep struct {
	ID         int64
	JobID      int64
	FlowStepID int64
	SequenceID int
	InputPath  string
	OutputPath string
	Command    string
	Status     JobStepStatus

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// LaunchableStep is the projection find_launchable_steps() returns: the
// inner join of job_step x flow_step x job x flow filtered down to rows
// in state S on both job_step and job.
type LaunchableStep struct {
	JobStepID        int64
	StatusCd         JobStepStatus
	JobStartDt       *time.Time
	TopicID          *int64
	ScriptPath       string
	ScriptParameters *string
	InputDir         string
	OutputDir        string
}
