package gameservice

import (
	"context"

	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for game operations.
type Service interface {
	// CreateGame registers a new game with caller as its first authority.
	CreateGame(ctx context.Context, caller sharedtypes.UserID, meta gamedomain.Meta, authorities []sharedtypes.UserID) (*gamedomain.Game, error)

	// UpdateGame replaces the fields that are non-nil. Only authorities may update.
	UpdateGame(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, meta *gamedomain.Meta, authorities *[]sharedtypes.UserID) (*gamedomain.Game, error)

	// AddAuthority appends authority to the game's authority list.
	AddAuthority(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, authority sharedtypes.UserID) (*gamedomain.Game, error)

	// IsAuthorized reports whether caller is an authority of the game.
	IsAuthorized(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)

	// GetGame retrieves a game.
	GetGame(ctx context.Context, gameID uuid.UUID) (*gamedomain.Game, error)

	// Authorize runs the authority check on an existing transaction.
	Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
}
