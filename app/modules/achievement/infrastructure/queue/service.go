package achievementqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

// QueueName is the River queue reward jobs run on.
const QueueName = "achievement"

// QueueService defines the contract for reward issuance jobs
type QueueService interface {
	// EnqueueRewardIssue schedules the announcement of a claimed reward
	EnqueueRewardIssue(ctx context.Context, job IssueRewardJob) error
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var (
	_ QueueService = (*Service)(nil)
	_ QueueService = (*InlineService)(nil)
)

// Service handles reward jobs using River
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.OperationMetrics
}

// NewService creates a River-backed queue service. maxWorkers bounds the
// concurrent reward jobs.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, maxWorkers int, metrics observability.OperationMetrics, issuer *Issuer) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_achievement_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing achievement queue service")

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, err
	}

	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewIssueRewardWorker(issuer))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Achievement queue service initialized successfully")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

// NewPool opens and pings a pgx pool; River requires pgx, not database/sql.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate brings the River schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")
	s.logger.Info("Starting achievement queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	s.logger.Info("Stopping achievement queue service")

	err := s.client.Stop(ctx)
	s.pool.Close()
	if err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	return nil
}

// EnqueueRewardIssue inserts the job. Jobs are unique by their arguments so
// a retried claim never pays twice.
func (s *Service) EnqueueRewardIssue(ctx context.Context, job IssueRewardJob) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_reward_issue", "river")

	ctxLogger := s.logger.With(
		attr.UUID("claim_id", job.ClaimID),
		attr.String("operation", "enqueue_reward_issue"),
	)

	res, err := s.client.Insert(ctx, job, &river.InsertOpts{
		Queue: QueueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to enqueue reward job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_reward_issue", "river")
		return fmt.Errorf("failed to enqueue reward job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_reward_issue", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_reward_issue", "river", time.Since(start))

	ctxLogger.Info("Reward job enqueued", attr.Any("job_id", res.Job.ID))
	return nil
}

// PendingJobs lists reward jobs that have not completed yet.
func (s *Service) PendingJobs(ctx context.Context) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64          `bun:"id"`
		State       string         `bun:"state"`
		Args        map[string]any `bun:"args"`
		CreatedAt   time.Time      `bun:"created_at"`
		Attempt     int16          `bun:"attempt"`
		MaxAttempts int16          `bun:"max_attempts"`
	}

	var rows []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "state", "args", "created_at", "attempt", "max_attempts").
		Where("kind = ?", IssueRewardJob{}.Kind()).
		Where("state NOT IN (?, ?, ?)", "completed", "cancelled", "discarded").
		Order("created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query reward jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, row := range rows {
		claimID, _ := row.Args["claim_id"].(string)
		out[i] = JobInfo{
			ID:          row.ID,
			ClaimID:     claimID,
			State:       row.State,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
			Attempt:     int(row.Attempt),
			MaxAttempts: int(row.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	if err := s.db.NewSelect().Table("river_job").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	s.logger.Debug("Queue service health check passed", attr.Int("total_jobs", count))
	return nil
}

// InlineService issues rewards in-process without a job queue. It serves
// single-process runs on sqlite, where River is unavailable.
type InlineService struct {
	issuer *Issuer
	logger *slog.Logger
}

func NewInlineService(logger *slog.Logger, issuer *Issuer) *InlineService {
	return &InlineService{issuer: issuer, logger: logger}
}

// EnqueueRewardIssue publishes right away. The claim transaction is still
// open, so the committed-claim check is skipped.
func (s *InlineService) EnqueueRewardIssue(ctx context.Context, job IssueRewardJob) error {
	return s.issuer.publish(ctx, job)
}

func (s *InlineService) HealthCheck(context.Context) error { return nil }

func (s *InlineService) Start(context.Context) error {
	s.logger.Info("Achievement rewards are issued inline")
	return nil
}

func (s *InlineService) Stop(context.Context) error { return nil }
