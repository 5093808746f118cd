package leaderboarddb

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Leaderboard is the persisted leaderboard descriptor. Bounds are stored as
// JSON so the full uint64 range survives every dialect.
type Leaderboard struct {
	bun.BaseModel `bun:"table:leaderboards,alias:l"`

	ID            uuid.UUID            `bun:"id,pk,type:uuid"`
	GameID        uuid.UUID            `bun:"game_id,type:uuid,notnull"`
	Description   string               `bun:"description,notnull,type:varchar(200)"`
	Bounds        sharedtypes.Bounds   `bun:"bounds,type:jsonb,notnull"`
	Ordering      sharedtypes.Ordering `bun:"ordering,notnull"`
	AllowMultiple bool                 `bun:"allow_multiple,notnull"`
	RetainCount   int                  `bun:"retain_count,notnull"`
	Decimals      int16                `bun:"decimals,notnull"`
	RankingHandle uuid.UUID            `bun:"ranking_handle,type:uuid,nullzero"`
	CreatedAt     time.Time            `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time            `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (l *Leaderboard) ToDomain() *leaderboarddomain.Leaderboard {
	return &leaderboarddomain.Leaderboard{
		ID:            l.ID,
		GameID:        l.GameID,
		Description:   l.Description,
		Bounds:        l.Bounds,
		Ordering:      l.Ordering,
		AllowMultiple: l.AllowMultiple,
		RetainCount:   l.RetainCount,
		Decimals:      uint8(l.Decimals),
		RankingHandle: l.RankingHandle,
		CreatedAt:     l.CreatedAt,
	}
}

func FromDomain(l *leaderboarddomain.Leaderboard) *Leaderboard {
	return &Leaderboard{
		ID:            l.ID,
		GameID:        l.GameID,
		Description:   l.Description,
		Bounds:        l.Bounds,
		Ordering:      l.Ordering,
		AllowMultiple: l.AllowMultiple,
		RetainCount:   l.RetainCount,
		Decimals:      int16(l.Decimals),
		RankingHandle: l.RankingHandle,
		CreatedAt:     l.CreatedAt,
	}
}
