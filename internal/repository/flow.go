package repository

import (
	"context"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
)

// FlowRepository exposes the Flow Controller's read of active,
// not-yet-seeded flows and the silent per-window seeding mark.
//
// Query methods never return an error to the caller: a failed query is
// logged as a warning by the implementation and an empty slice is
// returned; only mutation methods
// surface typed errors.
type FlowRepository interface {
	FindSeedable(ctx context.Context) []domain.SeedableFlow
	MarkSeeded(ctx context.Context, flowID int64, ts time.Time) error
}
