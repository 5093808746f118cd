package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetLeaderboard retrieves a leaderboard descriptor.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	getTx := func(ctx context.Context, db bun.IDB) (LeaderboardResult, error) {
		lb, err := s.Lookup(ctx, db, leaderboardID)
		if err != nil {
			return failureOr[*leaderboarddomain.Leaderboard](err)
		}
		return results.SuccessResult[*leaderboarddomain.Leaderboard, error](lb), nil
	}

	result, err := withTelemetry(s, ctx, "GetLeaderboard", leaderboardID.String(), func(ctx context.Context) (LeaderboardResult, error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// ListLeaderboards returns the leaderboards of a game.
func (s *LeaderboardService) ListLeaderboards(ctx context.Context, gameID uuid.UUID) ([]*leaderboarddomain.Leaderboard, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*leaderboarddomain.Leaderboard, error], error) {
		rows, err := s.repo.ListByGame(ctx, db, gameID)
		if err != nil {
			return failureOr[[]*leaderboarddomain.Leaderboard](err)
		}
		out := make([]*leaderboarddomain.Leaderboard, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ToDomain())
		}
		return results.SuccessResult[[]*leaderboarddomain.Leaderboard, error](out), nil
	}

	result, err := withTelemetry(s, ctx, "ListLeaderboards", gameID.String(), func(ctx context.Context) (results.OperationResult[[]*leaderboarddomain.Leaderboard, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

// GetRanking returns the filled ranking entries, best first.
func (s *LeaderboardService) GetRanking(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error) {
	rankingTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]leaderboarddomain.Entry, error], error) {
		ranking, err := s.rankingOf(ctx, db, leaderboardID)
		if err != nil {
			return failureOr[[]leaderboarddomain.Entry](err)
		}
		return results.SuccessResult[[]leaderboarddomain.Entry, error](ranking.Entries()), nil
	}

	result, err := withTelemetry(s, ctx, "GetRanking", leaderboardID.String(), func(ctx context.Context) (results.OperationResult[[]leaderboarddomain.Entry, error], error) {
		return runInTx(s, ctx, rankingTx)
	})
	return unwrap(result, err)
}

// IsPlayerRanked reports whether playerID currently holds a ranking slot.
func (s *LeaderboardService) IsPlayerRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) (bool, error) {
	rankedTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		ok, err := s.IsRanked(ctx, db, leaderboardID, playerID)
		if err != nil {
			return failureOr[bool](err)
		}
		return results.SuccessResult[bool, error](ok), nil
	}

	result, err := withTelemetry(s, ctx, "IsPlayerRanked", leaderboardID.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, rankedTx)
	})
	return unwrap(result, err)
}

// Lookup loads a leaderboard descriptor on db.
func (s *LeaderboardService) Lookup(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	row, err := s.repo.GetByID(ctx, db, leaderboardID)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// IsRanked is IsPlayerRanked on an existing transaction.
func (s *LeaderboardService) IsRanked(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID) (bool, error) {
	ranking, err := s.rankingOf(ctx, db, leaderboardID)
	if err != nil {
		return false, err
	}
	_, ok := ranking.Contains(playerID)
	return ok, nil
}

// rankingOf loads the ranking of a leaderboard. Unranked leaderboards yield
// an empty ranking.
func (s *LeaderboardService) rankingOf(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Ranking, error) {
	lb, err := s.Lookup(ctx, db, leaderboardID)
	if err != nil {
		return nil, err
	}
	if !lb.Ranked() {
		return leaderboarddomain.NewRanking(lb.Ordering, 0), nil
	}
	return s.loadRanking(ctx, db, lb)
}
