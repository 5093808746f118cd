package mergeservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	mergedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/domain"
	mergedb "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories"
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

// MergeResult is the result type of merge reads and initiation.
type MergeResult = results.OperationResult[*MergeView, error]

// MergeService implements the Service interface.
type MergeService struct {
	repo    mergedb.Repository
	players Players
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewMergeService creates a new MergeService.
func NewMergeService(
	repo mergedb.Repository,
	players Players,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MergeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MergeService{
		repo:    repo,
		players: players,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// InitiateMerge validates ownership and every candidate, then stores the merge.
func (s *MergeService) InitiateMerge(ctx context.Context, caller sharedtypes.UserID, initiator uuid.UUID, candidates []uuid.UUID) (*MergeView, error) {
	initiateTx := func(ctx context.Context, db bun.IDB) (MergeResult, error) {
		return s.initiateLogic(ctx, db, caller, initiator, candidates)
	}

	result, err := withTelemetry(s, ctx, "InitiateMerge", initiator.String(), func(ctx context.Context) (MergeResult, error) {
		return runInTx(s, ctx, initiateTx)
	})
	return unwrap(result, err)
}

func (s *MergeService) initiateLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, initiator uuid.UUID, candidates []uuid.UUID) (MergeResult, error) {
	owner, err := s.players.Owner(ctx, db, initiator)
	if err != nil {
		return failureOr[*MergeView](err)
	}
	if caller == "" || owner != caller {
		return failureOr[*MergeView](scoreerrors.ErrMissingApproval)
	}

	record := mergedomain.Initiate(uuid.New(), initiator, candidates)
	for _, p := range record.Participants {
		if _, err := s.players.Owner(ctx, db, p.PlayerID); err != nil {
			return failureOr[*MergeView](err)
		}
	}

	row := &mergedb.Merge{ID: record.ID, RequestedBy: caller, Initiator: initiator}
	row.Apply(record)
	if err := s.repo.Create(ctx, db, row); err != nil {
		return MergeResult{}, err
	}

	if record.Complete {
		s.logger.InfoContext(ctx, "Merge completed on creation",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("merge_id", record.ID),
		)
	}
	return results.SuccessResult[*MergeView, error](viewOf(row)), nil
}

// ApproveMerge locks the merge, applies the approval and, when it completes
// the merge, moves every participant player to the initiator's owner.
func (s *MergeService) ApproveMerge(ctx context.Context, caller sharedtypes.UserID, mergeID, participant uuid.UUID) (*ApprovalOutcome, error) {
	approveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ApprovalOutcome, error], error) {
		return s.approveLogic(ctx, db, caller, mergeID, participant)
	}

	result, err := withTelemetry(s, ctx, "ApproveMerge", mergeID.String(), func(ctx context.Context) (results.OperationResult[*ApprovalOutcome, error], error) {
		return runInTx(s, ctx, approveTx)
	})
	return unwrap(result, err)
}

func (s *MergeService) approveLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, mergeID, participant uuid.UUID) (results.OperationResult[*ApprovalOutcome, error], error) {
	row, err := s.repo.GetForUpdate(ctx, db, mergeID)
	if err != nil {
		return failureOr[*ApprovalOutcome](err)
	}
	record := row.ToDomain()
	if !record.Has(participant) {
		return failureOr[*ApprovalOutcome](fmt.Errorf("%w: %s", scoreerrors.ErrParticipantNotInMerge, participant))
	}

	owner, err := s.players.Owner(ctx, db, participant)
	if err != nil {
		return failureOr[*ApprovalOutcome](err)
	}
	if caller == "" || owner != caller {
		return failureOr[*ApprovalOutcome](scoreerrors.ErrMissingApproval)
	}

	outcome, err := record.Approve(participant)
	if err != nil {
		return failureOr[*ApprovalOutcome](err)
	}

	if outcome.Changed {
		row.Apply(record)
		if err := s.repo.UpdateApprovals(ctx, db, row); err != nil {
			return results.OperationResult[*ApprovalOutcome, error]{}, err
		}
	}

	if outcome.Completed {
		if err := s.consolidate(ctx, db, record); err != nil {
			return results.OperationResult[*ApprovalOutcome, error]{}, err
		}
	}

	return results.SuccessResult[*ApprovalOutcome, error](&ApprovalOutcome{
		Merge:       viewOf(row),
		Participant: participant,
		Outcome:     outcome,
	}), nil
}

// consolidate reassigns every participant to the initiator's owner.
func (s *MergeService) consolidate(ctx context.Context, db bun.IDB, record *mergedomain.Record) error {
	target, err := s.players.Owner(ctx, db, record.Initiator)
	if err != nil {
		return fmt.Errorf("failed to resolve merge initiator: %w", err)
	}
	for _, p := range record.Participants {
		if err := s.players.Reassign(ctx, db, p.PlayerID, target); err != nil {
			return fmt.Errorf("failed to reassign %s: %w", p.PlayerID, err)
		}
	}
	s.logger.InfoContext(ctx, "Merge completed",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("merge_id", record.ID),
		attr.Int("participants", len(record.Participants)),
	)
	return nil
}

// GetMerge retrieves a merge.
func (s *MergeService) GetMerge(ctx context.Context, mergeID uuid.UUID) (*MergeView, error) {
	getTx := func(ctx context.Context, db bun.IDB) (MergeResult, error) {
		row, err := s.repo.GetByID(ctx, db, mergeID)
		if err != nil {
			return failureOr[*MergeView](err)
		}
		return results.SuccessResult[*MergeView, error](viewOf(row)), nil
	}

	result, err := withTelemetry(s, ctx, "GetMerge", mergeID.String(), func(ctx context.Context) (MergeResult, error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// ListMerges returns the merges touching a player.
func (s *MergeService) ListMerges(ctx context.Context, playerID uuid.UUID) ([]*MergeView, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*MergeView, error], error) {
		rows, err := s.repo.ListByPlayer(ctx, db, playerID)
		if err != nil {
			return failureOr[[]*MergeView](err)
		}
		out := make([]*MergeView, 0, len(rows))
		for _, row := range rows {
			out = append(out, viewOf(row))
		}
		return results.SuccessResult[[]*MergeView, error](out), nil
	}

	result, err := withTelemetry(s, ctx, "ListMerges", playerID.String(), func(ctx context.Context) (results.OperationResult[[]*MergeView, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

func viewOf(row *mergedb.Merge) *MergeView {
	record := row.ToDomain()
	return &MergeView{
		ID:           row.ID,
		RequestedBy:  row.RequestedBy,
		Initiator:    row.Initiator,
		Participants: record.Participants,
		Pending:      record.Pending(),
		Complete:     record.Complete,
	}
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
	s *MergeService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "MergeService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "MergeService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "MergeService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "MergeService")
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
		s.metrics.RecordOperationSuccess(ctx, operationName, "MergeService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *MergeService,
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
