package playerservice

import (
	"context"

	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for player operations.
type Service interface {
	RegisterPlayer(ctx context.Context, user sharedtypes.UserID, username string) (*playerdomain.Player, error)
	UpdatePlayer(ctx context.Context, caller sharedtypes.UserID, playerID uuid.UUID, username string) (*playerdomain.Player, error)
	// FundPlayer deposits amount into the storage account paying for the
	// player's ledgers and returns the new balance.
	FundPlayer(ctx context.Context, playerID uuid.UUID, amount int64) (int64, error)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (*playerdomain.Player, error)
	ListPlayers(ctx context.Context, owner sharedtypes.UserID) ([]*playerdomain.Player, error)
	OwnsPlayer(ctx context.Context, user sharedtypes.UserID, playerID uuid.UUID) (bool, error)

	// Owner, Owns and Reassign run on an existing transaction for other modules.
	Owner(ctx context.Context, db bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error)
	Owns(ctx context.Context, db bun.IDB, user sharedtypes.UserID, playerID uuid.UUID) (bool, error)
	Reassign(ctx context.Context, db bun.IDB, playerID uuid.UUID, owner sharedtypes.UserID) error
}
