package leaderboarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for leaderboard persistence.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, lb *Leaderboard) error
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Leaderboard, error)
	// GetForUpdate locks the leaderboard row, serializing ranking updates.
	GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Leaderboard, error)
	ListByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*Leaderboard, error)
	Update(ctx context.Context, db bun.IDB, lb *Leaderboard) error
}
