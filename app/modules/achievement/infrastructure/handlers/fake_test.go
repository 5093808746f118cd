package achievementhandlers

import (
	"context"

	achievementservice "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/application"
	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// FakeAchievementService implements achievementservice.Service for handler tests.
type FakeAchievementService struct {
	trace []string

	AddAchievementFunc    func(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error)
	AddRewardFunc         func(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.RewardInput) (*achievementdomain.Reward, error)
	UnlockAchievementFunc func(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*achievementservice.UnlockOutcome, error)
	UnlockRankedFunc      func(ctx context.Context, leaderboardID, playerID uuid.UUID) ([]*achievementservice.UnlockOutcome, error)
	ClaimRewardFunc       func(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*achievementservice.ClaimOutcome, error)
	GetAchievementFunc    func(ctx context.Context, achievementID uuid.UUID) (*achievementservice.AchievementView, error)
}

func NewFakeAchievementService() *FakeAchievementService {
	return &FakeAchievementService{trace: []string{}}
}

func (f *FakeAchievementService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAchievementService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAchievementService) AddAchievement(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error) {
	f.record("AddAchievement")
	if f.AddAchievementFunc != nil {
		return f.AddAchievementFunc(ctx, caller, gameID, input)
	}
	return &achievementdomain.Achievement{ID: uuid.New(), GameID: gameID, Title: input.Title}, nil
}

func (f *FakeAchievementService) UpdateAchievement(_ context.Context, _ sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error) {
	f.record("UpdateAchievement")
	return &achievementdomain.Achievement{ID: achievementID, Title: input.Title}, nil
}

func (f *FakeAchievementService) AddReward(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.RewardInput) (*achievementdomain.Reward, error) {
	f.record("AddReward")
	if f.AddRewardFunc != nil {
		return f.AddRewardFunc(ctx, caller, achievementID, input)
	}
	return &achievementdomain.Reward{ID: uuid.New(), AchievementID: achievementID, Amount: input.Amount, AvailableSpots: input.AvailableSpots}, nil
}

func (f *FakeAchievementService) UnlockAchievement(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*achievementservice.UnlockOutcome, error) {
	f.record("UnlockAchievement")
	if f.UnlockAchievementFunc != nil {
		return f.UnlockAchievementFunc(ctx, caller, playerID, achievementID)
	}
	return unlockOutcome(playerID, achievementID, true), nil
}

func (f *FakeAchievementService) UnlockRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) ([]*achievementservice.UnlockOutcome, error) {
	f.record("UnlockRanked")
	if f.UnlockRankedFunc != nil {
		return f.UnlockRankedFunc(ctx, leaderboardID, playerID)
	}
	return nil, nil
}

func (f *FakeAchievementService) ClaimReward(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*achievementservice.ClaimOutcome, error) {
	f.record("ClaimReward")
	if f.ClaimRewardFunc != nil {
		return f.ClaimRewardFunc(ctx, caller, playerID, achievementID)
	}
	return &achievementservice.ClaimOutcome{
		ClaimID:     uuid.New(),
		Achievement: &achievementdomain.Achievement{ID: achievementID},
		Reward:      &achievementdomain.Reward{AchievementID: achievementID, Kind: achievementdomain.FungibleToken, Amount: 5, AvailableSpots: 2},
	}, nil
}

func (f *FakeAchievementService) GetAchievement(ctx context.Context, achievementID uuid.UUID) (*achievementservice.AchievementView, error) {
	f.record("GetAchievement")
	if f.GetAchievementFunc != nil {
		return f.GetAchievementFunc(ctx, achievementID)
	}
	return &achievementservice.AchievementView{Achievement: &achievementdomain.Achievement{ID: achievementID}}, nil
}

func (f *FakeAchievementService) ListAchievements(context.Context, uuid.UUID) ([]*achievementservice.AchievementView, error) {
	f.record("ListAchievements")
	return []*achievementservice.AchievementView{}, nil
}

func (f *FakeAchievementService) ListPlayerAchievements(context.Context, uuid.UUID) ([]*achievementdomain.PlayerAchievement, error) {
	f.record("ListPlayerAchievements")
	return []*achievementdomain.PlayerAchievement{}, nil
}

func unlockOutcome(playerID, achievementID uuid.UUID, unlocked bool) *achievementservice.UnlockOutcome {
	return &achievementservice.UnlockOutcome{
		Achievement: &achievementdomain.Achievement{ID: achievementID, GameID: uuid.New()},
		Unlock:      &achievementdomain.PlayerAchievement{PlayerID: playerID, AchievementID: achievementID},
		Unlocked:    unlocked,
	}
}

var _ achievementservice.Service = (*FakeAchievementService)(nil)
