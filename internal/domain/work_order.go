package domain

import "time"

// WorkOrder is the dispatch envelope moving from the Worker Dispatcher's
// round-robin assignment into a single Worker's queue. It is constructed
// once per launchable step and consumed by exactly one worker.
type WorkOrder struct {
	JobStepID    int64
	StatusCd     JobStepStatus
	SubjectID    *int64 // topic_id
	JobStart     *time.Time
	ScriptName   string
	ScriptParams *string
	InPath       *string
	OutPath      *string
}

// FromLaunchableStep builds the WorkOrder the Dispatcher hands to a
// worker queue from a single find_launchable_steps() row.
func FromLaunchableStep(s *LaunchableStep) WorkOrder {
	inPath := s.InputDir
	outPath := s.OutputDir
	return WorkOrder{
		JobStepID:    s.JobStepID,
		StatusCd:     s.StatusCd,
		SubjectID:    s.TopicID,
		JobStart:     s.JobStartDt,
		ScriptName:   s.ScriptPath,
		ScriptParams: s.ScriptParameters,
		InPath:       &inPath,
		OutPath:      &outPath,
	}
}
