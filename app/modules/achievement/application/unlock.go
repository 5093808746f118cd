package achievementservice

import (
	"context"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UnlockResult is the result type of unlocks.
type UnlockResult = results.OperationResult[*UnlockOutcome, error]

// UnlockAchievement unlocks an achievement for a player. Unlocking twice
// returns the existing unlock.
func (s *AchievementService) UnlockAchievement(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*UnlockOutcome, error) {
	unlockTx := func(ctx context.Context, db bun.IDB) (UnlockResult, error) {
		row, err := s.repo.GetAchievement(ctx, db, achievementID)
		if err != nil {
			return failureOr[*UnlockOutcome](err)
		}
		if err := s.authorize(ctx, db, caller, row.GameID); err != nil {
			return failureOr[*UnlockOutcome](err)
		}
		if _, err := s.players.Owner(ctx, db, playerID); err != nil {
			return failureOr[*UnlockOutcome](err)
		}

		a := row.ToDomain()
		if a.Gated() {
			ranked, err := s.rankings.IsRanked(ctx, db, *a.LeaderboardID, playerID)
			if err != nil {
				return failureOr[*UnlockOutcome](err)
			}
			if !ranked {
				return failureOr[*UnlockOutcome](achievementdomain.ErrNotRanked)
			}
		}

		outcome, err := s.unlock(ctx, db, a, playerID)
		if err != nil {
			return UnlockResult{}, err
		}
		return results.SuccessResult[*UnlockOutcome, error](outcome), nil
	}

	result, err := withTelemetry(s, ctx, "UnlockAchievement", achievementID.String(), func(ctx context.Context) (UnlockResult, error) {
		return runInTx(s, ctx, unlockTx)
	})
	return unwrap(result, err)
}

// UnlockRanked unlocks the achievements gated on a leaderboard for a ranked
// player. Only new unlocks are returned.
func (s *AchievementService) UnlockRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) ([]*UnlockOutcome, error) {
	unlockTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*UnlockOutcome, error], error) {
		gated, err := s.repo.ListGatedBy(ctx, db, leaderboardID)
		if err != nil {
			return results.OperationResult[[]*UnlockOutcome, error]{}, err
		}
		if len(gated) == 0 {
			return results.SuccessResult[[]*UnlockOutcome, error](nil), nil
		}

		// The ranking may have moved on since the event was published.
		ranked, err := s.rankings.IsRanked(ctx, db, leaderboardID, playerID)
		if err != nil {
			return failureOr[[]*UnlockOutcome](err)
		}
		if !ranked {
			return results.SuccessResult[[]*UnlockOutcome, error](nil), nil
		}

		var unlocked []*UnlockOutcome
		for _, row := range gated {
			outcome, err := s.unlock(ctx, db, row.ToDomain(), playerID)
			if err != nil {
				return results.OperationResult[[]*UnlockOutcome, error]{}, err
			}
			if outcome.Unlocked {
				unlocked = append(unlocked, outcome)
			}
		}
		return results.SuccessResult[[]*UnlockOutcome, error](unlocked), nil
	}

	result, err := withTelemetry(s, ctx, "UnlockRanked", leaderboardID.String(), func(ctx context.Context) (results.OperationResult[[]*UnlockOutcome, error], error) {
		return runInTx(s, ctx, unlockTx)
	})
	return unwrap(result, err)
}

func (s *AchievementService) unlock(ctx context.Context, db bun.IDB, a *achievementdomain.Achievement, playerID uuid.UUID) (*UnlockOutcome, error) {
	unlock := achievementdomain.Unlock(playerID, a.ID, s.now())
	created, err := s.repo.CreateUnlock(ctx, db, achievementdb.PlayerAchievementFromDomain(unlock))
	if err != nil {
		return nil, err
	}
	if !created {
		existing, err := s.repo.GetUnlock(ctx, db, playerID, a.ID)
		if err != nil {
			return nil, err
		}
		return &UnlockOutcome{Achievement: a, Unlock: existing.ToDomain()}, nil
	}

	s.logger.InfoContext(ctx, "Achievement unlocked",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("achievement_id", a.ID),
		attr.UUID("player_id", playerID),
	)
	return &UnlockOutcome{Achievement: a, Unlock: unlock, Unlocked: true}, nil
}
