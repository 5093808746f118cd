package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateLeaderboard adds a leaderboard to a game. When the retain count is
// positive the ranking is allocated with sentinel slots.
func (s *LeaderboardService) CreateLeaderboard(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) (*leaderboarddomain.Leaderboard, error) {
	createTx := func(ctx context.Context, db bun.IDB) (LeaderboardResult, error) {
		return s.createLeaderboardLogic(ctx, db, caller, gameID, input)
	}

	result, err := withTelemetry(s, ctx, "CreateLeaderboard", gameID.String(), func(ctx context.Context) (LeaderboardResult, error) {
		return runInTx(s, ctx, createTx)
	})
	return unwrap(result, err)
}

func (s *LeaderboardService) createLeaderboardLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) (LeaderboardResult, error) {
	if err := s.authorize(ctx, db, caller, gameID); err != nil {
		return failureOr[*leaderboarddomain.Leaderboard](err)
	}
	if err := input.Validate(); err != nil {
		return failureOr[*leaderboarddomain.Leaderboard](err)
	}

	lb := &leaderboarddomain.Leaderboard{
		ID:            uuid.New(),
		GameID:        gameID,
		Description:   input.Description,
		Bounds:        *input.Bounds,
		Ordering:      input.Ordering,
		AllowMultiple: input.AllowMultiple,
		RetainCount:   input.RetainCount,
		Decimals:      input.Decimals,
	}

	if lb.Ranked() {
		ranking := leaderboarddomain.NewRanking(lb.Ordering, lb.RetainCount)
		size := leaderboarddomain.RankingLayout.Size(lb.RetainCount)
		handle, err := s.substrate.Create(ctx, db, RankingOwner(gameID), size)
		if err != nil {
			return LeaderboardResult{}, fmt.Errorf("failed to allocate ranking: %w", err)
		}
		if err := s.storeRanking(ctx, db, handle, ranking); err != nil {
			return LeaderboardResult{}, err
		}
		lb.RankingHandle = handle
	}

	row := leaderboarddb.FromDomain(lb)
	if err := s.repo.Create(ctx, db, row); err != nil {
		return LeaderboardResult{}, fmt.Errorf("failed to create leaderboard: %w", err)
	}

	return results.SuccessResult[*leaderboarddomain.Leaderboard, error](row.ToDomain()), nil
}

// UpdateLeaderboard applies an admin update. An ordering change re-sorts the
// stored ranking in the same transaction, and turning allow_multiple off
// keeps only each player's best slot.
func (s *LeaderboardService) UpdateLeaderboard(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, update leaderboarddomain.Update) (*leaderboarddomain.Leaderboard, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (LeaderboardResult, error) {
		return s.updateLeaderboardLogic(ctx, db, caller, leaderboardID, update)
	}

	result, err := withTelemetry(s, ctx, "UpdateLeaderboard", leaderboardID.String(), func(ctx context.Context) (LeaderboardResult, error) {
		return runInTx(s, ctx, updateTx)
	})
	return unwrap(result, err)
}

func (s *LeaderboardService) updateLeaderboardLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, leaderboardID uuid.UUID, update leaderboarddomain.Update) (LeaderboardResult, error) {
	row, err := s.repo.GetForUpdate(ctx, db, leaderboardID)
	if err != nil {
		return failureOr[*leaderboarddomain.Leaderboard](err)
	}
	lb := row.ToDomain()

	if err := s.authorize(ctx, db, caller, lb.GameID); err != nil {
		return failureOr[*leaderboarddomain.Leaderboard](err)
	}

	changes, err := update.Apply(lb)
	if err != nil {
		return failureOr[*leaderboarddomain.Leaderboard](err)
	}

	if changes.RewriteRanking() && lb.Ranked() {
		ranking, err := s.loadRanking(ctx, db, lb)
		if err != nil {
			return LeaderboardResult{}, err
		}
		ranking.SetOrdering(lb.Ordering)
		var removed []leaderboarddomain.Entry
		if changes.SingleSlot {
			removed = ranking.KeepBestPerPlayer()
		}
		if err := s.storeRanking(ctx, db, lb.RankingHandle, ranking); err != nil {
			return LeaderboardResult{}, err
		}
		s.logger.InfoContext(ctx, "Ranking rewritten after leaderboard update",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("leaderboard_id", leaderboardID),
			attr.String("ordering", string(lb.Ordering)),
			attr.Bool("allow_multiple", lb.AllowMultiple),
			attr.Int("removed_slots", len(removed)),
		)
	}

	updated := leaderboarddb.FromDomain(lb)
	if err := s.repo.Update(ctx, db, updated); err != nil {
		return LeaderboardResult{}, fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return results.SuccessResult[*leaderboarddomain.Leaderboard, error](lb), nil
}
