package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Ledger indexes a player's ledger blob on a leaderboard. Length and Capacity
// mirror the blob header so summaries do not read the substrate.
type Ledger struct {
	bun.BaseModel `bun:"table:ledgers,alias:ld"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	PlayerID      uuid.UUID `bun:"player_id,notnull,type:uuid,unique:ledger_player_leaderboard"`
	LeaderboardID uuid.UUID `bun:"leaderboard_id,notnull,type:uuid,unique:ledger_player_leaderboard"`
	BlobHandle    uuid.UUID `bun:"blob_handle,notnull,type:uuid"`
	Length        int       `bun:"length,notnull,default:0"`
	Capacity      int       `bun:"capacity,notnull"`
	LastScore     *uint64   `bun:"last_score,type:jsonb"`
	LastTimestamp *int64    `bun:"last_timestamp"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
