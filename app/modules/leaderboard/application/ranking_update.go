package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConsiderScore offers record to the leaderboard's ranking in its own
// transaction. It returns nil for leaderboards without a ranking.
func (s *LeaderboardService) ConsiderScore(ctx context.Context, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
	considerTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*leaderboarddomain.RankingUpdate, error], error) {
		update, err := s.Consider(ctx, db, leaderboardID, playerID, record)
		if err != nil {
			return failureOr[*leaderboarddomain.RankingUpdate](err)
		}
		return results.SuccessResult[*leaderboarddomain.RankingUpdate, error](update), nil
	}

	result, err := withTelemetry(s, ctx, "ConsiderScore", leaderboardID.String(), func(ctx context.Context) (results.OperationResult[*leaderboarddomain.RankingUpdate, error], error) {
		return runInTx(s, ctx, considerTx)
	})
	return unwrap(result, err)
}

// Consider runs the ranking update on db. The leaderboard row is locked so
// concurrent submissions to one leaderboard apply one at a time.
func (s *LeaderboardService) Consider(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
	row, err := s.repo.GetForUpdate(ctx, db, leaderboardID)
	if err != nil {
		return nil, err
	}
	lb := row.ToDomain()

	if !lb.Bounds.Contains(record.Score) {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", scoreerrors.ErrScoreOutOfBounds, record.Score, lb.Bounds.Min, lb.Bounds.Max)
	}
	if !lb.Ranked() {
		return nil, nil
	}

	ranking, err := s.loadRanking(ctx, db, lb)
	if err != nil {
		return nil, err
	}

	outcome := ranking.Consider(playerID, record, lb.AllowMultiple)
	if outcome.Updated {
		if err := s.storeRanking(ctx, db, lb.RankingHandle, ranking); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Ranking updated",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("leaderboard_id", leaderboardID),
			attr.UUID("player_id", playerID),
			attr.Int("rank", outcome.Rank),
		)
	}

	return &leaderboarddomain.RankingUpdate{
		LeaderboardID: lb.ID,
		GameID:        lb.GameID,
		PlayerID:      playerID,
		Outcome:       outcome,
		Entries:       ranking.Entries(),
	}, nil
}
