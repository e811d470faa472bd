package domain

import "time"

// FlowStep is an ordered stage within a Flow naming an external script and
// its I/O directories. It is the template JobSteps are materialized from.
type FlowStep struct {
	ID               int64
	Name             string
	SequenceID       int
	FlowID           int64
	InputDir         string
	OutputDir        string
	ScriptPath       string
	ScriptParameters *string

	CreatedAt time.Time
	UpdatedAt *time.Time
}
