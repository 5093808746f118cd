package scoredb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for ledger index persistence.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, ledger *Ledger) error
	Get(ctx context.Context, db bun.IDB, playerID, leaderboardID uuid.UUID) (*Ledger, error)
	// GetForUpdate locks the ledger row, serializing appends to one ledger.
	GetForUpdate(ctx context.Context, db bun.IDB, playerID, leaderboardID uuid.UUID) (*Ledger, error)
	ListByPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*Ledger, error)
	UpdateCounts(ctx context.Context, db bun.IDB, ledger *Ledger) error
}
