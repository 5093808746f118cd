package scoreservice

import (
	"context"
	"errors"
	"fmt"

	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterPlayerForLeaderboard opens an empty ledger for the player. The blob
// is charged to the player owner's storage account.
func (s *ScoreService) RegisterPlayerForLeaderboard(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error) {
	registerTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredomain.Summary, error], error) {
		return s.registerLogic(ctx, db, caller, playerID, leaderboardID)
	}

	result, err := withTelemetry(s, ctx, "RegisterPlayerForLeaderboard", playerID.String(), func(ctx context.Context) (results.OperationResult[*scoredomain.Summary, error], error) {
		return runInTx(s, ctx, registerTx)
	})
	return unwrap(result, err)
}

func (s *ScoreService) registerLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID) (results.OperationResult[*scoredomain.Summary, error], error) {
	if _, err := s.leaderboards.Lookup(ctx, db, leaderboardID); err != nil {
		return failureOr[*scoredomain.Summary](err)
	}

	owner, err := s.players.Owner(ctx, db, playerID)
	if err != nil {
		return failureOr[*scoredomain.Summary](err)
	}
	if owner != caller {
		return failureOr[*scoredomain.Summary](scoreerrors.ErrMissingApproval)
	}

	_, err = s.repo.Get(ctx, db, playerID, leaderboardID)
	switch {
	case err == nil:
		return failureOr[*scoredomain.Summary](scoredb.ErrAlreadyRegistered)
	case !errors.Is(err, scoredb.ErrNotFound):
		return failureOr[*scoredomain.Summary](err)
	}

	initial := s.initialCapacity()
	handle, err := s.substrate.Create(ctx, db, playerdomain.FundingAccount(owner), scoredomain.LedgerLayout.Size(initial))
	if err != nil {
		return results.OperationResult[*scoredomain.Summary, error]{}, fmt.Errorf("failed to allocate ledger: %w", err)
	}
	if err := s.substrate.Write(ctx, db, handle, 0, scoredomain.EmptyLedgerBlob(playerID, leaderboardID, initial)); err != nil {
		return results.OperationResult[*scoredomain.Summary, error]{}, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	row := &scoredb.Ledger{
		ID:            uuid.New(),
		PlayerID:      playerID,
		LeaderboardID: leaderboardID,
		BlobHandle:    handle,
		Capacity:      initial,
	}
	if err := s.repo.Create(ctx, db, row); err != nil {
		return failureOr[*scoredomain.Summary](err)
	}

	return results.SuccessResult[*scoredomain.Summary, error](summaryOf(row)), nil
}

// SubmitScore appends record to the player's ledger and offers it to the
// leaderboard's ranking. Both changes commit together or not at all.
func (s *ScoreService) SubmitScore(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID, record sharedtypes.ScoreRecord) (*SubmitOutcome, error) {
	submitTx := func(ctx context.Context, db bun.IDB) (SubmitResult, error) {
		return s.submitLogic(ctx, db, caller, playerID, leaderboardID, record)
	}

	result, err := withTelemetry(s, ctx, "SubmitScore", playerID.String(), func(ctx context.Context) (SubmitResult, error) {
		return runInTx(s, ctx, submitTx)
	})
	return unwrap(result, err)
}

func (s *ScoreService) submitLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID, record sharedtypes.ScoreRecord) (SubmitResult, error) {
	lb, err := s.leaderboards.Lookup(ctx, db, leaderboardID)
	if err != nil {
		return failureOr[*SubmitOutcome](err)
	}
	if err := s.authorize(ctx, db, caller, lb.GameID); err != nil {
		return failureOr[*SubmitOutcome](err)
	}

	row, err := s.repo.GetForUpdate(ctx, db, playerID, leaderboardID)
	if err != nil {
		return failureOr[*SubmitOutcome](err)
	}
	ledger, err := s.loadLedger(ctx, db, row)
	if err != nil {
		return SubmitResult{}, err
	}

	// Nothing is written before Append succeeds, so a failure result leaves
	// the ledger as it was.
	appended, err := ledger.Append(record, lb.Bounds, s.policy, s.provisioner(ctx, db, row.BlobHandle))
	if err != nil {
		return failureOr[*SubmitOutcome](err)
	}
	if err := s.writeAppend(ctx, db, row.BlobHandle, record, appended); err != nil {
		return SubmitResult{}, err
	}

	row.Length = appended.Length
	row.Capacity = appended.Capacity
	row.LastScore = &record.Score
	row.LastTimestamp = &record.Timestamp
	if err := s.repo.UpdateCounts(ctx, db, row); err != nil {
		return SubmitResult{}, err
	}

	if appended.Grew {
		s.logger.InfoContext(ctx, "Ledger capacity grew",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("player_id", playerID),
			attr.UUID("leaderboard_id", leaderboardID),
			attr.Int("previous_capacity", appended.PreviousCapacity),
			attr.Int("capacity", appended.Capacity),
		)
	}

	// Any ranking error rolls back the append as well.
	update, err := s.leaderboards.Consider(ctx, db, leaderboardID, playerID, record)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to update ranking: %w", err)
	}

	return results.SuccessResult[*SubmitOutcome, error](&SubmitOutcome{
		PlayerID:      playerID,
		LeaderboardID: leaderboardID,
		Record:        record,
		AppendOutcome: appended,
		Ranking:       update,
	}), nil
}
