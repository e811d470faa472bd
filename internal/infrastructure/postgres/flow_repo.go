package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlowRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFlowRepository(pool *pgxpool.Pool, logger *slog.Logger) *FlowRepository {
	return &FlowRepository{pool: pool, logger: logger.With("component", "flow_repo")}
}

func (r *FlowRepository) FindSeedable(ctx context.Context) []domain.SeedableFlow {
	rows, err := r.pool.Query(ctx, `
		SELECT id, flow_name, frequency, topic_id
		FROM flow
		WHERE is_active = TRUE AND run_flg = FALSE`)
	if err != nil {
		r.logger.WarnContext(ctx, "find seedable flows", "error", err)
		return nil
	}
	defer rows.Close()

	var out []domain.SeedableFlow
	for rows.Next() {
		var f domain.SeedableFlow
		if err := rows.Scan(&f.FlowID, &f.Name, &f.Frequency, &f.TopicID); err != nil {
			r.logger.WarnContext(ctx, "scan seedable flow", "error", err)
			return nil
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		r.logger.WarnContext(ctx, "iterate seedable flows", "error", err)
		return nil
	}
	return out
}

func (r *FlowRepository) MarkSeeded(ctx context.Context, flowID int64, ts time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flow SET run_flg = TRUE, updated_dt = $2 WHERE id = $1`,
		flowID, ts)
	return err
}

// Insert backs the seed tooling; the Flow Controller never creates flows,
// only expands existing ones.
func (r *FlowRepository) Insert(ctx context.Context, f domain.Flow) (*domain.Flow, error) {
	var out domain.Flow
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flow (flow_name, topic_id, is_active, run_flg, frequency, created_dt)
		VALUES ($1, $2, $3, FALSE, $4, now())
		RETURNING id, flow_name, topic_id, is_active, run_flg, frequency, created_dt`,
		f.Name, f.TopicID, f.IsActive, f.Frequency,
	).Scan(&out.ID, &out.Name, &out.TopicID, &out.IsActive, &out.RunFlg, &out.Frequency, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
