package achievementservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RewardQueue schedules the issuance of claimed rewards.
type RewardQueue interface {
	EnqueueRewardIssue(ctx context.Context, job achievementqueue.IssueRewardJob) error
}

// AchievementService implements the Service interface.
type AchievementService struct {
	repo     achievementdb.Repository
	games    GameAuthorizer
	players  Players
	rankings RankingChecker
	queue    RewardQueue
	now      func() time.Time
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewAchievementService creates a new AchievementService.
func NewAchievementService(
	repo achievementdb.Repository,
	games GameAuthorizer,
	players Players,
	rankings RankingChecker,
	queue RewardQueue,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *AchievementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AchievementService{
		repo:     repo,
		games:    games,
		players:  players,
		rankings: rankings,
		queue:    queue,
		now:      time.Now,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

func (s *AchievementService) authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) error {
	ok, err := s.games.Authorize(ctx, db, caller, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return scoreerrors.ErrNotAuthorized
	}
	return nil
}

// failureOr turns domain errors into failure results and passes the rest through.
func failureOr[S any](err error) (results.OperationResult[S, error], error) {
	if scoreerrors.IsDomain(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}

func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *AchievementService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "AchievementService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "AchievementService", time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "AchievementService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "AchievementService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "AchievementService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *AchievementService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
