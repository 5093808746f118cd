package playerdb

import (
	"context"

	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for player persistence.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, player *Player) error
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Player, error)
	ListByOwner(ctx context.Context, db bun.IDB, owner sharedtypes.UserID) ([]*Player, error)
	UpdateUsername(ctx context.Context, db bun.IDB, id uuid.UUID, username string) error
	UpdateOwner(ctx context.Context, db bun.IDB, id uuid.UUID, owner sharedtypes.UserID) error
}
