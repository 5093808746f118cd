package achievementdb

import (
	"time"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Achievement is the persisted form of an achievement.
type Achievement struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	GameID        uuid.UUID  `bun:"game_id,notnull,type:uuid"`
	Title         string     `bun:"title,notnull"`
	Description   string     `bun:"description,notnull"`
	LeaderboardID *uuid.UUID `bun:"leaderboard_id,type:uuid"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (a *Achievement) ToDomain() *achievementdomain.Achievement {
	return &achievementdomain.Achievement{
		ID:            a.ID,
		GameID:        a.GameID,
		Title:         a.Title,
		Description:   a.Description,
		LeaderboardID: a.LeaderboardID,
	}
}

// Apply copies the editable fields of d onto the row.
func (a *Achievement) Apply(d *achievementdomain.Achievement) {
	a.Title = d.Title
	a.Description = d.Description
	a.LeaderboardID = d.LeaderboardID
}

// Reward is the persisted reward of an achievement. An achievement has at
// most one reward.
type Reward struct {
	bun.BaseModel `bun:"table:achievement_rewards,alias:r"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	AchievementID  uuid.UUID `bun:"achievement_id,notnull,unique,type:uuid"`
	Kind           string    `bun:"kind,notnull"`
	Amount         uint64    `bun:"amount,notnull"`
	AvailableSpots uint64    `bun:"available_spots,notnull"`
	Issued         uint64    `bun:"issued,notnull"`
	Name           string    `bun:"name"`
	Symbol         string    `bun:"symbol"`
	URI            string    `bun:"uri"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *Reward) ToDomain() *achievementdomain.Reward {
	return &achievementdomain.Reward{
		ID:             r.ID,
		AchievementID:  r.AchievementID,
		Kind:           achievementdomain.RewardKind(r.Kind),
		Amount:         r.Amount,
		AvailableSpots: r.AvailableSpots,
		Issued:         r.Issued,
		Name:           r.Name,
		Symbol:         r.Symbol,
		URI:            r.URI,
	}
}

func RewardFromDomain(d *achievementdomain.Reward) *Reward {
	return &Reward{
		ID:             d.ID,
		AchievementID:  d.AchievementID,
		Kind:           string(d.Kind),
		Amount:         d.Amount,
		AvailableSpots: d.AvailableSpots,
		Issued:         d.Issued,
		Name:           d.Name,
		Symbol:         d.Symbol,
		URI:            d.URI,
	}
}

// PlayerAchievement is a player's unlock row.
type PlayerAchievement struct {
	bun.BaseModel `bun:"table:player_achievements,alias:pa"`

	PlayerID      uuid.UUID  `bun:"player_id,pk,type:uuid"`
	AchievementID uuid.UUID  `bun:"achievement_id,pk,type:uuid"`
	UnlockedAt    time.Time  `bun:"unlocked_at,notnull"`
	Claimed       bool       `bun:"claimed,notnull"`
	ClaimID       *uuid.UUID `bun:"claim_id,unique,type:uuid"`
	ClaimedAt     *time.Time `bun:"claimed_at"`
}

func (p *PlayerAchievement) ToDomain() *achievementdomain.PlayerAchievement {
	return &achievementdomain.PlayerAchievement{
		PlayerID:      p.PlayerID,
		AchievementID: p.AchievementID,
		UnlockedAt:    p.UnlockedAt,
		Claimed:       p.Claimed,
		ClaimID:       p.ClaimID,
		ClaimedAt:     p.ClaimedAt,
	}
}

func PlayerAchievementFromDomain(d *achievementdomain.PlayerAchievement) *PlayerAchievement {
	return &PlayerAchievement{
		PlayerID:      d.PlayerID,
		AchievementID: d.AchievementID,
		UnlockedAt:    d.UnlockedAt,
		Claimed:       d.Claimed,
		ClaimID:       d.ClaimID,
		ClaimedAt:     d.ClaimedAt,
	}
}
