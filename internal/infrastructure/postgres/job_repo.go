package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, logger *slog.Logger) *JobRepository {
	return &JobRepository{pool: pool, logger: logger.With("component", "job_repo")}
}

func (r *JobRepository) Insert(ctx context.Context, form repository.JobForm) (*domain.Job, error) {
	var j domain.Job
	err := r.pool.QueryRow(ctx, `
		INSERT INTO job (job_name, flow_id, status_cd, start_dt, created_dt)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, job_name, flow_id, status_cd, start_dt, created_dt`,
		form.Name, form.FlowID, form.Status, form.StartDt,
	).Scan(&j.ID, &j.Name, &j.FlowID, &j.Status, &j.StartDt, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) FindNew(ctx context.Context) []domain.NewJob {
	rows, err := r.pool.Query(ctx, `
		SELECT id, job_name, flow_id, start_dt
		FROM job
		WHERE status_cd = $1`, domain.JobNew)
	if err != nil {
		r.logger.WarnContext(ctx, "find new jobs", "error", err)
		return nil
	}
	defer rows.Close()

	var out []domain.NewJob
	for rows.Next() {
		var j domain.NewJob
		if err := rows.Scan(&j.JobID, &j.Name, &j.FlowID, &j.StartDt); err != nil {
			r.logger.WarnContext(ctx, "scan new job", "error", err)
			return nil
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		r.logger.WarnContext(ctx, "iterate new jobs", "error", err)
		return nil
	}
	return out
}

func (r *JobRepository) SetStatus(ctx context.Context, jobID int64, status domain.JobStatus, ts time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE job SET status_cd = $2, updated_dt = $3 WHERE id = $1`,
		jobID, status, ts)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
