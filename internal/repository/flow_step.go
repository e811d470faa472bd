package repository

import (
	"context"

	"github.com/arrowkit/flowcore/internal/domain"
)

// FlowStepRepository loads the ordered FlowStep template for a Flow so
// the controller can materialize JobSteps from it.
type FlowStepRepository interface {
	FindByFlow(ctx context.Context, flowID int64) []domain.FlowStep
}
