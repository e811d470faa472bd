package postgres

import (
	"context"
	"log/slog"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlowStepRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFlowStepRepository(pool *pgxpool.Pool, logger *slog.Logger) *FlowStepRepository {
	return &FlowStepRepository{pool: pool, logger: logger.With("component", "flow_step_repo")}
}

func (r *FlowStepRepository) FindByFlow(ctx context.Context, flowID int64) []domain.FlowStep {
	rows, err := r.pool.Query(ctx, `
		SELECT id, step_name, sequence_id, flow_id, input_dir, output_dir, script_path, script_params
		FROM flow_step
		WHERE flow_id = $1
		ORDER BY sequence_id ASC`, flowID)
	if err != nil {
		r.logger.WarnContext(ctx, "find flow steps", "flow_id", flowID, "error", err)
		return nil
	}
	defer rows.Close()

	var out []domain.FlowStep
	for rows.Next() {
		var s domain.FlowStep
		if err := rows.Scan(&s.ID, &s.Name, &s.SequenceID, &s.FlowID, &s.InputDir, &s.OutputDir, &s.ScriptPath, &s.ScriptParameters); err != nil {
			r.logger.WarnContext(ctx, "scan flow step", "flow_id", flowID, "error", err)
			return nil
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		r.logger.WarnContext(ctx, "iterate flow steps", "flow_id", flowID, "error", err)
		return nil
	}
	return out
}

// Insert backs the seed tooling; runtime FlowStep templates are never
// created by the controller or dispatcher.
func (r *FlowStepRepository) Insert(ctx context.Context, s domain.FlowStep) (*domain.FlowStep, error) {
	var out domain.FlowStep
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flow_step (step_name, sequence_id, flow_id, input_dir, output_dir, script_path, script_params, created_dt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, step_name, sequence_id, flow_id, input_dir, output_dir, script_path, script_params, created_dt`,
		s.Name, s.SequenceID, s.FlowID, s.InputDir, s.OutputDir, s.ScriptPath, s.ScriptParameters,
	).Scan(&out.ID, &out.Name, &out.SequenceID, &out.FlowID, &out.InputDir, &out.OutputDir, &out.ScriptPath, &out.ScriptParameters, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
