package gamedb

import (
	"time"

	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Game is the persisted form of a game.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID                uuid.UUID            `bun:"id,pk,type:uuid"`
	Title             string               `bun:"title,notnull,type:varchar(30)"`
	Description       string               `bun:"description,notnull,type:varchar(200)"`
	Genre             string               `bun:"genre,notnull,type:varchar(40)"`
	GameType          string               `bun:"game_type,notnull,type:varchar(20)"`
	Authorities       []sharedtypes.UserID `bun:"authorities,type:jsonb"`
	AuthorityCapacity int                  `bun:"authority_capacity,notnull"`
	CreatedAt         time.Time            `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt         time.Time            `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to the domain model.
func (g *Game) ToDomain() *gamedomain.Game {
	return &gamedomain.Game{
		ID: g.ID,
		Meta: gamedomain.Meta{
			Title:       g.Title,
			Description: g.Description,
			Genre:       g.Genre,
			GameType:    g.GameType,
		},
		Authorities: gamedomain.Authorities{
			Users:    g.Authorities,
			Capacity: g.AuthorityCapacity,
		},
		CreatedAt: g.CreatedAt,
	}
}

// FromDomain builds a row from the domain model.
func FromDomain(g *gamedomain.Game) *Game {
	return &Game{
		ID:                g.ID,
		Title:             g.Meta.Title,
		Description:       g.Meta.Description,
		Genre:             g.Meta.Genre,
		GameType:          g.Meta.GameType,
		Authorities:       g.Authorities.Users,
		AuthorityCapacity: g.Authorities.Capacity,
		CreatedAt:         g.CreatedAt,
	}
}
