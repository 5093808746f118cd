package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/charts"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardResult is the result type of single-leaderboard operations.
type LeaderboardResult = results.OperationResult[*leaderboarddomain.Leaderboard, error]

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo      leaderboarddb.Repository
	games     GameAuthorizer
	substrate storage.Substrate
	palette   charts.Palette
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	games GameAuthorizer,
	substrate storage.Substrate,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		repo:      repo,
		games:     games,
		substrate: substrate,
		palette:   charts.DefaultPalette,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// RankingOwner is the storage account charged for a game's ranking blobs.
func RankingOwner(gameID uuid.UUID) string {
	return "game:" + gameID.String()
}

// authorize returns a domain failure when caller is not an authority of gameID.
func (s *LeaderboardService) authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) error {
	ok, err := s.games.Authorize(ctx, db, caller, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return scoreerrors.ErrNotAuthorized
	}
	return nil
}

// loadRanking reads and decodes the ranking blob of lb.
func (s *LeaderboardService) loadRanking(ctx context.Context, db bun.IDB, lb *leaderboarddomain.Leaderboard) (*leaderboarddomain.Ranking, error) {
	blob, err := s.substrate.Read(ctx, db, lb.RankingHandle, 0, leaderboarddomain.RankingLayout.Size(lb.RetainCount))
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}
	ranking, err := leaderboarddomain.DecodeRanking(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ranking: %w", err)
	}
	return ranking, nil
}

func (s *LeaderboardService) storeRanking(ctx context.Context, db bun.IDB, handle uuid.UUID, ranking *leaderboarddomain.Ranking) error {
	blob, err := leaderboarddomain.EncodeRanking(ranking)
	if err != nil {
		return err
	}
	if err := s.substrate.Write(ctx, db, handle, 0, blob); err != nil {
		return fmt.Errorf("failed to write ranking: %w", err)
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
	s *LeaderboardService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "LeaderboardService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "LeaderboardService", time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
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

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "LeaderboardService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *LeaderboardService,
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
