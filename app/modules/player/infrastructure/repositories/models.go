package playerdb

import (
	"time"

	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Player is the persisted form of a player.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        uuid.UUID          `bun:"id,pk,type:uuid"`
	Owner     sharedtypes.UserID `bun:"owner,notnull"`
	Username  string             `bun:"username,notnull,type:varchar(100)"`
	CreatedAt time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (p *Player) ToDomain() *playerdomain.Player {
	return &playerdomain.Player{
		ID:        p.ID,
		Owner:     p.Owner,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}
}
