package achievementservice

import (
	"context"
	"errors"
	"fmt"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ClaimResult is the result type of reward claims.
type ClaimResult = results.OperationResult[*ClaimOutcome, error]

// ClaimReward takes a reward spot for an unlocked achievement and queues the
// payout. The queue insert is part of the claim; a failed insert rolls the
// claim back.
func (s *AchievementService) ClaimReward(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*ClaimOutcome, error) {
	claimTx := func(ctx context.Context, db bun.IDB) (ClaimResult, error) {
		return s.claimLogic(ctx, db, caller, playerID, achievementID)
	}

	result, err := withTelemetry(s, ctx, "ClaimReward", achievementID.String(), func(ctx context.Context) (ClaimResult, error) {
		return runInTx(s, ctx, claimTx)
	})
	return unwrap(result, err)
}

func (s *AchievementService) claimLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (ClaimResult, error) {
	owner, err := s.players.Owner(ctx, db, playerID)
	if err != nil {
		return failureOr[*ClaimOutcome](err)
	}
	if caller == "" || owner != caller {
		return failureOr[*ClaimOutcome](scoreerrors.ErrMissingApproval)
	}

	achievement, err := s.repo.GetAchievement(ctx, db, achievementID)
	if err != nil {
		return failureOr[*ClaimOutcome](err)
	}

	unlockRow, err := s.repo.GetUnlockForUpdate(ctx, db, playerID, achievementID)
	if err != nil {
		if errors.Is(err, achievementdb.ErrUnlockNotFound) {
			return failureOr[*ClaimOutcome](achievementdomain.ErrNotUnlocked)
		}
		return ClaimResult{}, err
	}
	unlock := unlockRow.ToDomain()
	if unlock.Claimed {
		return failureOr[*ClaimOutcome](scoreerrors.ErrDuplicateClaim)
	}

	rewardRow, err := s.repo.GetRewardForUpdate(ctx, db, achievementID)
	if err != nil {
		if errors.Is(err, achievementdb.ErrRewardNotFound) {
			return failureOr[*ClaimOutcome](scoreerrors.ErrNoRewardAvailable)
		}
		return ClaimResult{}, err
	}
	reward := rewardRow.ToDomain()

	claimID := uuid.New()
	if err := unlock.Claim(reward, claimID, s.now()); err != nil {
		return failureOr[*ClaimOutcome](err)
	}

	if err := s.repo.UpdateRewardSpots(ctx, db, achievementdb.RewardFromDomain(reward)); err != nil {
		return ClaimResult{}, err
	}
	if err := s.repo.UpdateClaim(ctx, db, achievementdb.PlayerAchievementFromDomain(unlock)); err != nil {
		return ClaimResult{}, err
	}

	job := achievementqueue.IssueRewardJob{
		ClaimID:       claimID,
		AchievementID: achievementID,
		RewardID:      reward.ID,
		PlayerID:      playerID,
		GameID:        achievement.GameID,
		Kind:          string(reward.Kind),
		Amount:        reward.Amount,
	}
	if err := s.queue.EnqueueRewardIssue(ctx, job); err != nil {
		return ClaimResult{}, fmt.Errorf("failed to queue reward: %w", err)
	}

	s.logger.InfoContext(ctx, "Reward claimed",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("claim_id", claimID),
		attr.UUID("player_id", playerID),
		attr.Uint64("spots_left", reward.AvailableSpots),
	)

	return results.SuccessResult[*ClaimOutcome, error](&ClaimOutcome{
		ClaimID:     claimID,
		Achievement: achievement.ToDomain(),
		Reward:      reward,
		Unlock:      unlock,
	}), nil
}
