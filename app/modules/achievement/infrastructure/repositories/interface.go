package achievementdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for achievement persistence.
type Repository interface {
	CreateAchievement(ctx context.Context, db bun.IDB, a *Achievement) error
	GetAchievement(ctx context.Context, db bun.IDB, id uuid.UUID) (*Achievement, error)
	GetAchievementForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Achievement, error)
	UpdateAchievement(ctx context.Context, db bun.IDB, a *Achievement) error
	ListAchievements(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*Achievement, error)

	// ListGatedBy returns the achievements gated on a leaderboard.
	ListGatedBy(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) ([]*Achievement, error)

	CreateReward(ctx context.Context, db bun.IDB, r *Reward) error

	// GetReward returns the reward of an achievement, or ErrRewardNotFound.
	GetReward(ctx context.Context, db bun.IDB, achievementID uuid.UUID) (*Reward, error)
	GetRewardForUpdate(ctx context.Context, db bun.IDB, achievementID uuid.UUID) (*Reward, error)
	UpdateRewardSpots(ctx context.Context, db bun.IDB, r *Reward) error

	// CreateUnlock inserts the unlock unless the player already has it and
	// reports whether a row was written.
	CreateUnlock(ctx context.Context, db bun.IDB, p *PlayerAchievement) (bool, error)
	GetUnlock(ctx context.Context, db bun.IDB, playerID, achievementID uuid.UUID) (*PlayerAchievement, error)
	GetUnlockForUpdate(ctx context.Context, db bun.IDB, playerID, achievementID uuid.UUID) (*PlayerAchievement, error)
	UpdateClaim(ctx context.Context, db bun.IDB, p *PlayerAchievement) error
	ListUnlocks(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*PlayerAchievement, error)

	// GetClaim looks an unlock up by the id of its claim.
	GetClaim(ctx context.Context, db bun.IDB, claimID uuid.UUID) (*PlayerAchievement, error)
}
