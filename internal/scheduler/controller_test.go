package scheduler_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/arrowkit/flowcore/internal/cronspec"
	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/repository"
	"github.com/arrowkit/flowcore/internal/scheduler"
)

// ---- fakes ----

type fakeFlowRepo struct {
	findSeedable func(ctx context.Context) []domain.SeedableFlow
	markSeeded   func(ctx context.Context, flowID int64, ts time.Time) error
}

func (r *fakeFlowRepo) FindSeedable(ctx context.Context) []domain.SeedableFlow {
	return r.findSeedable(ctx)
}

func (r *fakeFlowRepo) MarkSeeded(ctx context.Context, flowID int64, ts time.Time) error {
	return r.markSeeded(ctx, flowID, ts)
}

type fakeFlowStepRepo struct {
	findByFlow func(ctx context.Context, flowID int64) []domain.FlowStep
}

func (r *fakeFlowStepRepo) FindByFlow(ctx context.Context, flowID int64) []domain.FlowStep {
	return r.findByFlow(ctx, flowID)
}

type fakeJobRepo struct {
	insert    func(ctx context.Context, form repository.JobForm) (*domain.Job, error)
	findNew   func(ctx context.Context) []domain.NewJob
	setStatus func(ctx context.Context, jobID int64, status domain.JobStatus, ts time.Time) error
}

func (r *fakeJobRepo) Insert(ctx context.Context, form repository.JobForm) (*domain.Job, error) {
	return r.insert(ctx, form)
}

func (r *fakeJobRepo) FindNew(ctx context.Context) []domain.NewJob {
	return r.findNew(ctx)
}

func (r *fakeJobRepo) SetStatus(ctx context.Context, jobID int64, status domain.JobStatus, ts time.Time) error {
	return r.setStatus(ctx, jobID, status, ts)
}

type fakeJobStepRepo struct {
	insert            func(ctx context.Context, form repository.JobStepForm) (*domain.JobStep, error)
	promoteFirstSteps func(ctx context.Context, ts time.Time) (int, error)
	findLaunchable    func(ctx context.Context) []domain.LaunchableStep
	setRunning        func(ctx context.Context, jobStepID int64, command string, ts time.Time) error
}

func (r *fakeJobStepRepo) Insert(ctx context.Context, form repository.JobStepForm) (*domain.JobStep, error) {
	return r.insert(ctx, form)
}

func (r *fakeJobStepRepo) PromoteFirstSteps(ctx context.Context, ts time.Time) (int, error) {
	return r.promoteFirstSteps(ctx, ts)
}

func (r *fakeJobStepRepo) FindLaunchable(ctx context.Context) []domain.LaunchableStep {
	return r.findLaunchable(ctx)
}

func (r *fakeJobStepRepo) SetRunning(ctx context.Context, jobStepID int64, command string, ts time.Time) error {
	return r.setRunning(ctx, jobStepID, command, ts)
}

func noopJobStepRepo() *fakeJobStepRepo {
	return &fakeJobStepRepo{
		promoteFirstSteps: func(context.Context, time.Time) (int, error) { return 0, nil },
	}
}

// ---- tests ----

func TestSeedFlows_InactiveFlowNeverSeeds(t *testing.T) {
	flowRepo := &fakeFlowRepo{
		findSeedable: func(context.Context) []domain.SeedableFlow { return nil },
		markSeeded:   func(context.Context, int64, time.Time) error { t.Fatal("should not mark seeded"); return nil },
	}
	jobRepo := &fakeJobRepo{
		insert:  func(context.Context, repository.JobForm) (*domain.Job, error) { t.Fatal("should not insert"); return nil, nil },
		findNew: func(context.Context) []domain.NewJob { return nil },
	}

	c := scheduler.NewController(flowRepo, &fakeFlowStepRepo{}, jobRepo, noopJobStepRepo(), slog.Default(), time.Minute)
	c.Tick(context.Background())
}

func TestSeedFlows_MissingTopicIDSkipsWithoutMarking(t *testing.T) {
	marked := false
	flowRepo := &fakeFlowRepo{
		findSeedable: func(context.Context) []domain.SeedableFlow {
			return []domain.SeedableFlow{{FlowID: 10, Name: "nlp-land", Frequency: "0 0 12 * * * *", TopicID: nil}}
		},
		markSeeded: func(context.Context, int64, time.Time) error { marked = true; return nil },
	}
	jobRepo := &fakeJobRepo{
		findNew: func(context.Context) []domain.NewJob { return nil },
	}

	c := scheduler.NewController(flowRepo, &fakeFlowStepRepo{}, jobRepo, noopJobStepRepo(), slog.Default(), time.Minute)
	c.Tick(context.Background())

	if marked {
		t.Fatal("run_flg should not be marked when topic_id is absent")
	}
}

func TestSeedFlows_MalformedFrequencySkipsWithoutMarking(t *testing.T) {
	marked := false
	topicID := int64(7)
	flowRepo := &fakeFlowRepo{
		findSeedable: func(context.Context) []domain.SeedableFlow {
			return []domain.SeedableFlow{{FlowID: 10, Name: "nlp-land", Frequency: "not a cron", TopicID: &topicID}}
		},
		markSeeded: func(context.Context, int64, time.Time) error { marked = true; return nil },
	}
	jobRepo := &fakeJobRepo{
		findNew: func(context.Context) []domain.NewJob { return nil },
	}

	c := scheduler.NewController(flowRepo, &fakeFlowStepRepo{}, jobRepo, noopJobStepRepo(), slog.Default(), time.Minute)
	c.Tick(context.Background())

	if marked {
		t.Fatal("run_flg should not be marked for a malformed frequency")
	}
}

func TestSeedFlows_ValidFlowCreatesJobAndMarksSeeded(t *testing.T) {
	topicID := int64(7)
	marked := false
	var insertedName string

	now := time.Now().UTC()
	freq := cronExprAtSecondsFromNow(now, 2*time.Second)

	flowRepo := &fakeFlowRepo{
		findSeedable: func(context.Context) []domain.SeedableFlow {
			return []domain.SeedableFlow{{FlowID: 10, Name: "nlp-land", Frequency: freq, TopicID: &topicID}}
		},
		markSeeded: func(context.Context, int64, time.Time) error { marked = true; return nil },
	}
	jobRepo := &fakeJobRepo{
		insert: func(_ context.Context, form repository.JobForm) (*domain.Job, error) {
			insertedName = form.Name
			return &domain.Job{ID: 1, Name: form.Name, FlowID: form.FlowID, Status: form.Status}, nil
		},
		findNew: func(context.Context) []domain.NewJob { return nil },
	}

	c := scheduler.NewController(flowRepo, &fakeFlowStepRepo{}, jobRepo, noopJobStepRepo(), slog.Default(), time.Minute)
	c.Tick(context.Background())

	if !marked {
		t.Fatal("expected run_flg to be marked")
	}
	if insertedName == "" {
		t.Fatal("expected a job to be inserted")
	}
}

func TestSeedJobSteps_PartialFailureEndsJobInFailed(t *testing.T) {
	var gotStatus domain.JobStatus

	flowRepo := &fakeFlowRepo{
		findSeedable: func(context.Context) []domain.SeedableFlow { return nil },
	}
	flowStepRepo := &fakeFlowStepRepo{
		findByFlow: func(context.Context, int64) []domain.FlowStep {
			return []domain.FlowStep{{ID: 1, SequenceID: 1}, {ID: 2, SequenceID: 2}, {ID: 3, SequenceID: 3}}
		},
	}
	insertCount := 0
	jobRepo := &fakeJobRepo{
		findNew: func(context.Context) []domain.NewJob {
			return []domain.NewJob{{JobID: 100, Name: "job", FlowID: 10}}
		},
		setStatus: func(_ context.Context, _ int64, status domain.JobStatus, _ time.Time) error {
			gotStatus = status
			return nil
		},
	}
	jobStepRepo := &fakeJobStepRepo{
		insert: func(_ context.Context, form repository.JobStepForm) (*domain.JobStep, error) {
			insertCount++
			if form.FlowStepID == 2 {
				return nil, context.DeadlineExceeded
			}
			return &domain.JobStep{ID: int64(insertCount)}, nil
		},
		promoteFirstSteps: func(context.Context, time.Time) (int, error) { return 0, nil },
	}

	c := scheduler.NewController(flowRepo, flowStepRepo, jobRepo, jobStepRepo, slog.Default(), time.Minute)
	c.Tick(context.Background())

	if gotStatus != domain.JobFailed {
		t.Fatalf("expected job to end failed, got %s", gotStatus)
	}
}

func TestLaunchFirstSteps_PromotesAndRecordsCount(t *testing.T) {
	promoted := 0
	flowRepo := &fakeFlowRepo{findSeedable: func(context.Context) []domain.SeedableFlow { return nil }}
	jobRepo := &fakeJobRepo{findNew: func(context.Context) []domain.NewJob { return nil }}
	jobStepRepo := &fakeJobStepRepo{
		promoteFirstSteps: func(context.Context, time.Time) (int, error) { promoted = 3; return 3, nil },
	}

	c := scheduler.NewController(flowRepo, &fakeFlowStepRepo{}, jobRepo, jobStepRepo, slog.Default(), time.Minute)
	c.Tick(context.Background())

	if promoted != 3 {
		t.Fatalf("expected 3 promoted, got %d", promoted)
	}
}

// cronExprAtSecondsFromNow builds a seven-field expression that fires
// once, d from now, so tests don't depend on wall-clock alignment.
func cronExprAtSecondsFromNow(now time.Time, d time.Duration) string {
	return cronspec.Build7(now.Add(d))
}
