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

type JobStepRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewJobStepRepository(pool *pgxpool.Pool, logger *slog.Logger) *JobStepRepository {
	return &JobStepRepository{pool: pool, logger: logger.With("component", "job_step_repo")}
}

func (r *JobStepRepository) Insert(ctx context.Context, form repository.JobStepForm) (*domain.JobStep, error) {
	var s domain.JobStep
	err := r.pool.QueryRow(ctx, `
		INSERT INTO job_step (job_id, flow_step_id, sequence_id, input_path, output_path, command, status_cd, created_dt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, job_id, flow_step_id, sequence_id, input_path, output_path, command, status_cd, created_dt`,
		form.JobID, form.FlowStepID, form.SequenceID, form.InputPath, form.OutputPath, form.Command, form.Status,
	).Scan(&s.ID, &s.JobID, &s.FlowStepID, &s.SequenceID, &s.InputPath, &s.OutputPath, &s.Command, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PromoteFirstSteps flips sequence_id=1 job_steps still in 'N' to 'S', but
// only for jobs whose own status is already 'S'. It is the single write the
// launcher performs each tick; the join against job guards against promoting
// a step whose job failed to finish seeding.
func (r *JobStepRepository) PromoteFirstSteps(ctx context.Context, ts time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE job_step
		SET status_cd = $1, updated_dt = $2
		WHERE sequence_id = 1
		  AND status_cd = $3
		  AND job_id IN (SELECT id FROM job WHERE status_cd = $4)`,
		domain.JobStepSeeded, ts, domain.JobStepNew, domain.JobSeeded)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *JobStepRepository) FindLaunchable(ctx context.Context) []domain.LaunchableStep {
	rows, err := r.pool.Query(ctx, `
		SELECT js.id, js.status_cd, j.start_dt, f.topic_id,
		       fs.script_path, fs.script_params, fs.input_dir, fs.output_dir
		FROM job_step js
		JOIN job j ON j.id = js.job_id
		JOIN flow f ON f.id = j.flow_id
		JOIN flow_step fs ON fs.id = js.flow_step_id
		WHERE js.status_cd = $1 AND j.status_cd = $2
		FOR UPDATE OF js SKIP LOCKED`,
		domain.JobStepSeeded, domain.JobSeeded)
	if err != nil {
		r.logger.WarnContext(ctx, "find launchable steps", "error", err)
		return nil
	}
	defer rows.Close()

	var out []domain.LaunchableStep
	for rows.Next() {
		var s domain.LaunchableStep
		if err := rows.Scan(&s.JobStepID, &s.StatusCd, &s.JobStartDt, &s.TopicID,
			&s.ScriptPath, &s.ScriptParameters, &s.InputDir, &s.OutputDir); err != nil {
			r.logger.WarnContext(ctx, "scan launchable step", "error", err)
			return nil
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		r.logger.WarnContext(ctx, "iterate launchable steps", "error", err)
		return nil
	}
	return out
}

// SetRunning only takes effect while the step is still 'S'; a row count of
// zero means another worker or a reaper already moved it and is reported as
// pgx.ErrNoRows so the caller can decide whether to treat it as a race.
func (r *JobStepRepository) SetRunning(ctx context.Context, jobStepID int64, command string, ts time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE job_step
		SET status_cd = $1, command = $2, updated_dt = $3
		WHERE id = $4 AND status_cd = $5`,
		domain.JobStepRunning, command, ts, jobStepID, domain.JobStepSeeded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
