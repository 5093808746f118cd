package mergedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for merge persistence.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, merge *Merge) error

	// GetByID retrieves a merge. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Merge, error)

	// GetForUpdate retrieves a merge and locks its row so concurrent
	// approvals apply one at a time.
	GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Merge, error)

	// UpdateApprovals rewrites the participant flags and completion state.
	UpdateApprovals(ctx context.Context, db bun.IDB, merge *Merge) error

	// ListByPlayer returns the merges a player initiated or takes part in,
	// newest first.
	ListByPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*Merge, error)
}
