package domain

import (
	"errors"
	"time"
)

var (
	ErrFlowNotFound     = errors.New("flow not found")
	ErrFlowHasNoTopic   = errors.New("flow has no topic_id, cannot be seeded")
	ErrInvalidFrequency = errors.New("frequency cannot be parsed")
)

// Flow is a named, recurring pipeline definition bound to a topic and a
// cron frequency.
type Flow struct {
	ID        int64
	Name      string
	TopicID   *int64
	Frequency string
	IsActive  bool
	RunFlg    bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SeedableFlow is the projection find_seedable_flows() returns: active,
// not-yet-seeded flows. It carries only what the Flow Controller needs to
// expand a cron window into Jobs.
type SeedableFlow struct {
	FlowID    int64
	Name      string
	Frequency string
	TopicID   *int64
}
