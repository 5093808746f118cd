package achievementservice

import (
	"context"
	"errors"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AchievementResult is the result type of achievement writes.
type AchievementResult = results.OperationResult[*achievementdomain.Achievement, error]

// AddAchievement creates an achievement for a game.
func (s *AchievementService) AddAchievement(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error) {
	addTx := func(ctx context.Context, db bun.IDB) (AchievementResult, error) {
		if err := input.Validate(); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}
		if err := s.authorize(ctx, db, caller, gameID); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}
		if err := s.checkGate(ctx, db, gameID, input.LeaderboardID); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}

		a := &achievementdomain.Achievement{ID: uuid.New(), GameID: gameID}
		a.Apply(input)

		row := &achievementdb.Achievement{ID: a.ID, GameID: gameID}
		row.Apply(a)
		if err := s.repo.CreateAchievement(ctx, db, row); err != nil {
			return AchievementResult{}, err
		}

		s.logger.InfoContext(ctx, "Achievement added",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("achievement_id", a.ID),
			attr.UUID("game_id", gameID),
			attr.Bool("gated", a.Gated()),
		)
		return results.SuccessResult[*achievementdomain.Achievement, error](a), nil
	}

	result, err := withTelemetry(s, ctx, "AddAchievement", gameID.String(), func(ctx context.Context) (AchievementResult, error) {
		return runInTx(s, ctx, addTx)
	})
	return unwrap(result, err)
}

// UpdateAchievement replaces the editable fields of an achievement.
func (s *AchievementService) UpdateAchievement(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (AchievementResult, error) {
		if err := input.Validate(); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}
		row, err := s.repo.GetAchievementForUpdate(ctx, db, achievementID)
		if err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}
		if err := s.authorize(ctx, db, caller, row.GameID); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}
		if err := s.checkGate(ctx, db, row.GameID, input.LeaderboardID); err != nil {
			return failureOr[*achievementdomain.Achievement](err)
		}

		a := row.ToDomain()
		a.Apply(input)
		row.Apply(a)
		if err := s.repo.UpdateAchievement(ctx, db, row); err != nil {
			return AchievementResult{}, err
		}
		return results.SuccessResult[*achievementdomain.Achievement, error](a), nil
	}

	result, err := withTelemetry(s, ctx, "UpdateAchievement", achievementID.String(), func(ctx context.Context) (AchievementResult, error) {
		return runInTx(s, ctx, updateTx)
	})
	return unwrap(result, err)
}

// AddReward attaches the reward of an achievement. An achievement carries at
// most one reward.
func (s *AchievementService) AddReward(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.RewardInput) (*achievementdomain.Reward, error) {
	addTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*achievementdomain.Reward, error], error) {
		row, err := s.repo.GetAchievementForUpdate(ctx, db, achievementID)
		if err != nil {
			return failureOr[*achievementdomain.Reward](err)
		}
		if err := s.authorize(ctx, db, caller, row.GameID); err != nil {
			return failureOr[*achievementdomain.Reward](err)
		}

		reward, err := achievementdomain.NewReward(uuid.New(), achievementID, input)
		if err != nil {
			return failureOr[*achievementdomain.Reward](err)
		}

		_, err = s.repo.GetReward(ctx, db, achievementID)
		switch {
		case err == nil:
			return failureOr[*achievementdomain.Reward](achievementdomain.ErrRewardExists)
		case !errors.Is(err, achievementdb.ErrRewardNotFound):
			return results.OperationResult[*achievementdomain.Reward, error]{}, err
		}

		if err := s.repo.CreateReward(ctx, db, achievementdb.RewardFromDomain(reward)); err != nil {
			return results.OperationResult[*achievementdomain.Reward, error]{}, err
		}

		s.logger.InfoContext(ctx, "Reward added",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("achievement_id", achievementID),
			attr.String("kind", string(reward.Kind)),
			attr.Uint64("spots", reward.AvailableSpots),
		)
		return results.SuccessResult[*achievementdomain.Reward, error](reward), nil
	}

	result, err := withTelemetry(s, ctx, "AddReward", achievementID.String(), func(ctx context.Context) (results.OperationResult[*achievementdomain.Reward, error], error) {
		return runInTx(s, ctx, addTx)
	})
	return unwrap(result, err)
}

// checkGate verifies the gating leaderboard exists and belongs to the game.
func (s *AchievementService) checkGate(ctx context.Context, db bun.IDB, gameID uuid.UUID, leaderboardID *uuid.UUID) error {
	if leaderboardID == nil {
		return nil
	}
	lb, err := s.rankings.Lookup(ctx, db, *leaderboardID)
	if err != nil {
		return err
	}
	if lb.GameID != gameID {
		return achievementdomain.ErrGateOutsideGame
	}
	return nil
}
