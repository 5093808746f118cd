package gamedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// Create inserts a new game.
	Create(ctx context.Context, db bun.IDB, game *Game) error

	// GetByID retrieves a game. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Game, error)

	// GetForUpdate retrieves a game and locks its row for the transaction.
	GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Game, error)

	// Update rewrites the mutable columns of a game.
	Update(ctx context.Context, db bun.IDB, game *Game) error
}
