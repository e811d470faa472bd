package postgres

import (
	"context"

	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TopicRepository backs the seed tooling only; the Flow Controller and
// Worker Dispatcher only ever read topic_id off a Flow/LaunchableStep
// projection, never the topic table directly.
type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

// Insert is idempotent on topic_name: re-running the seed tool against an
// already-seeded database returns the existing row instead of erroring.
func (r *TopicRepository) Insert(ctx context.Context, t domain.Topic) (*domain.Topic, error) {
	var out domain.Topic
	err := r.pool.QueryRow(ctx, `
		INSERT INTO topic (topic_name, search_text, landing_dir, archive_dir, stage_dir, catalog_dir, work_dir, created_dt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (topic_name) DO UPDATE SET topic_name = EXCLUDED.topic_name
		RETURNING id, topic_name, search_text, landing_dir, archive_dir, stage_dir, catalog_dir, work_dir, created_dt`,
		t.Name, t.SearchText, t.LandingDir, t.ArchiveDir, t.StageDir, t.CatalogDir, t.WorkDir,
	).Scan(&out.ID, &out.Name, &out.SearchText, &out.LandingDir, &out.ArchiveDir, &out.StageDir, &out.CatalogDir, &out.WorkDir, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
