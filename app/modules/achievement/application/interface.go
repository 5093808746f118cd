package achievementservice

import (
	"context"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for achievement operations.
type Service interface {
	// AddAchievement, UpdateAchievement and AddReward require a game authority.
	AddAchievement(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error)
	UpdateAchievement(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.Input) (*achievementdomain.Achievement, error)
	AddReward(ctx context.Context, caller sharedtypes.UserID, achievementID uuid.UUID, input achievementdomain.RewardInput) (*achievementdomain.Reward, error)

	// UnlockAchievement is issued by a game authority. Gated achievements
	// need the player to be ranked on the gating leaderboard.
	UnlockAchievement(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*UnlockOutcome, error)

	// UnlockRanked unlocks every achievement gated on leaderboardID for a
	// player that just entered its ranking.
	UnlockRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) ([]*UnlockOutcome, error)

	// ClaimReward is issued by the player's owner.
	ClaimReward(ctx context.Context, caller sharedtypes.UserID, playerID, achievementID uuid.UUID) (*ClaimOutcome, error)

	GetAchievement(ctx context.Context, achievementID uuid.UUID) (*AchievementView, error)
	ListAchievements(ctx context.Context, gameID uuid.UUID) ([]*AchievementView, error)
	ListPlayerAchievements(ctx context.Context, playerID uuid.UUID) ([]*achievementdomain.PlayerAchievement, error)
}

// GameAuthorizer checks game authorities inside a transaction.
type GameAuthorizer interface {
	Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
}

// Players resolves player ownership inside a transaction.
type Players interface {
	Owner(ctx context.Context, db bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error)
}

// RankingChecker answers read-only ranking queries inside a transaction.
type RankingChecker interface {
	Lookup(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error)
	IsRanked(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID) (bool, error)
}

// AchievementView is an achievement with its reward, if any.
type AchievementView struct {
	*achievementdomain.Achievement
	Reward *achievementdomain.Reward `json:"reward,omitempty"`
}

// UnlockOutcome reports an unlock. Unlocked is false when the player already
// had the achievement.
type UnlockOutcome struct {
	Achievement *achievementdomain.Achievement
	Unlock      *achievementdomain.PlayerAchievement
	Unlocked    bool
}

// ClaimOutcome reports a claimed reward.
type ClaimOutcome struct {
	ClaimID     uuid.UUID
	Achievement *achievementdomain.Achievement
	Reward      *achievementdomain.Reward
	Unlock      *achievementdomain.PlayerAchievement
}
