package achievementservice

import (
	"context"
	"errors"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetAchievement returns an achievement and its reward.
func (s *AchievementService) GetAchievement(ctx context.Context, achievementID uuid.UUID) (*AchievementView, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*AchievementView, error], error) {
		row, err := s.repo.GetAchievement(ctx, db, achievementID)
		if err != nil {
			return failureOr[*AchievementView](err)
		}
		view, err := s.view(ctx, db, row)
		if err != nil {
			return results.OperationResult[*AchievementView, error]{}, err
		}
		return results.SuccessResult[*AchievementView, error](view), nil
	}

	result, err := withTelemetry(s, ctx, "GetAchievement", achievementID.String(), func(ctx context.Context) (results.OperationResult[*AchievementView, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// ListAchievements returns the achievements of a game in creation order.
func (s *AchievementService) ListAchievements(ctx context.Context, gameID uuid.UUID) ([]*AchievementView, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*AchievementView, error], error) {
		rows, err := s.repo.ListAchievements(ctx, db, gameID)
		if err != nil {
			return results.OperationResult[[]*AchievementView, error]{}, err
		}
		out := make([]*AchievementView, 0, len(rows))
		for _, row := range rows {
			view, err := s.view(ctx, db, row)
			if err != nil {
				return results.OperationResult[[]*AchievementView, error]{}, err
			}
			out = append(out, view)
		}
		return results.SuccessResult[[]*AchievementView, error](out), nil
	}

	result, err := withTelemetry(s, ctx, "ListAchievements", gameID.String(), func(ctx context.Context) (results.OperationResult[[]*AchievementView, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

// ListPlayerAchievements returns a player's unlocks.
func (s *AchievementService) ListPlayerAchievements(ctx context.Context, playerID uuid.UUID) ([]*achievementdomain.PlayerAchievement, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*achievementdomain.PlayerAchievement, error], error) {
		rows, err := s.repo.ListUnlocks(ctx, db, playerID)
		if err != nil {
			return results.OperationResult[[]*achievementdomain.PlayerAchievement, error]{}, err
		}
		out := make([]*achievementdomain.PlayerAchievement, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.ToDomain())
		}
		return results.SuccessResult[[]*achievementdomain.PlayerAchievement, error](out), nil
	}

	result, err := withTelemetry(s, ctx, "ListPlayerAchievements", playerID.String(), func(ctx context.Context) (results.OperationResult[[]*achievementdomain.PlayerAchievement, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

func (s *AchievementService) view(ctx context.Context, db bun.IDB, row *achievementdb.Achievement) (*AchievementView, error) {
	view := &AchievementView{Achievement: row.ToDomain()}
	reward, err := s.repo.GetReward(ctx, db, row.ID)
	switch {
	case err == nil:
		view.Reward = reward.ToDomain()
	case !errors.Is(err, achievementdb.ErrRewardNotFound):
		return nil, err
	}
	return view, nil
}
