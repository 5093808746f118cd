package scoreservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/app/modules/score/application/parsers"
	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
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

// SubmitResult is the result type of score submissions.
type SubmitResult = results.OperationResult[*SubmitOutcome, error]

// ScoreService implements the Service interface.
type ScoreService struct {
	repo         scoredb.Repository
	leaderboards Leaderboards
	games        GameAuthorizer
	players      Players
	substrate    storage.Substrate
	policy       capacity.Policy
	parsers      *parsers.Factory
	palette      charts.Palette
	now          func() time.Time
	logger       *slog.Logger
	metrics      observability.OperationMetrics
	tracer       trace.Tracer
	db           *bun.DB
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	leaderboards Leaderboards,
	games GameAuthorizer,
	players Players,
	substrate storage.Substrate,
	policy capacity.Policy,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreService{
		repo:         repo,
		leaderboards: leaderboards,
		games:        games,
		players:      players,
		substrate:    substrate,
		policy:       policy,
		parsers:      parsers.NewFactory(),
		palette:      charts.DefaultPalette,
		now:          time.Now,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		db:           db,
	}
}

func (s *ScoreService) initialCapacity() int {
	if s.policy.Initial <= 0 {
		return capacity.DefaultInitial
	}
	return s.policy.Initial
}

func (s *ScoreService) authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) error {
	ok, err := s.games.Authorize(ctx, db, caller, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return scoreerrors.ErrNotAuthorized
	}
	return nil
}

// loadLedger reads the whole ledger blob behind row.
func (s *ScoreService) loadLedger(ctx context.Context, db bun.IDB, row *scoredb.Ledger) (*scoredomain.Ledger, error) {
	size, err := s.substrate.Size(ctx, db, row.BlobHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to size ledger: %w", err)
	}
	blob, err := s.substrate.Read(ctx, db, row.BlobHandle, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	ledger, err := scoredomain.DecodeLedger(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return ledger, nil
}

// provisioner grows the ledger blob, charging the blob owner.
func (s *ScoreService) provisioner(ctx context.Context, db bun.IDB, handle uuid.UUID) scoredomain.Provisioner {
	return func(newCapacity int) error {
		err := s.substrate.Grow(ctx, db, handle, scoredomain.LedgerLayout.Size(newCapacity))
		if errors.Is(err, storage.ErrInsufficientFunds) || errors.Is(err, storage.ErrAccountNotFound) {
			return fmt.Errorf("%w: %w", scoreerrors.ErrInsufficientCapacityFunds, err)
		}
		return err
	}
}

// writeAppend stores the appended record, then the length, and the capacity
// header when the ledger grew.
func (s *ScoreService) writeAppend(ctx context.Context, db bun.IDB, handle uuid.UUID, record sharedtypes.ScoreRecord, outcome scoredomain.AppendOutcome) error {
	layout := scoredomain.LedgerLayout
	if err := s.substrate.Write(ctx, db, handle, layout.RecordOffset(outcome.Position), record.Bytes()); err != nil {
		return fmt.Errorf("failed to write score record: %w", err)
	}
	if err := s.substrate.Write(ctx, db, handle, layout.LengthOffset(), storage.EncodeLength(outcome.Length)); err != nil {
		return fmt.Errorf("failed to write ledger length: %w", err)
	}
	if outcome.Grew {
		if err := s.substrate.Write(ctx, db, handle, scoredomain.CapacityOffset, scoredomain.EncodeCapacity(outcome.Capacity)); err != nil {
			return fmt.Errorf("failed to write ledger capacity: %w", err)
		}
	}
	return nil
}

func summaryOf(row *scoredb.Ledger) *scoredomain.Summary {
	summary := &scoredomain.Summary{
		PlayerID:      row.PlayerID,
		LeaderboardID: row.LeaderboardID,
		Length:        row.Length,
		Capacity:      row.Capacity,
	}
	if row.LastScore != nil && row.LastTimestamp != nil {
		summary.Last = &sharedtypes.ScoreRecord{Score: *row.LastScore, Timestamp: *row.LastTimestamp}
	}
	return summary
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
	s *ScoreService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "ScoreService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "ScoreService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "ScoreService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "ScoreService")
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
		s.metrics.RecordOperationSuccess(ctx, operationName, "ScoreService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ScoreService,
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
