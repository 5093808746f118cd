package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when the player has no ledger on the leaderboard.
	ErrNotFound = fmt.Errorf("ledger %w", scoreerrors.ErrNotFound)

	// ErrAlreadyRegistered is returned when a ledger already exists.
	ErrAlreadyRegistered = fmt.Errorf("%w: player already registered for leaderboard", scoreerrors.ErrInvalidArgument)
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ledger repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, ledger *Ledger) error {
	db = r.resolveDB(db)

	exists, err := db.NewSelect().
		Model((*Ledger)(nil)).
		Where("ld.player_id = ?", ledger.PlayerID).
		Where("ld.leaderboard_id = ?", ledger.LeaderboardID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check ledger: %w", err)
	}
	if exists {
		return ErrAlreadyRegistered
	}

	now := time.Now().UTC()
	if ledger.CreatedAt.IsZero() {
		ledger.CreatedAt = now
	}
	ledger.UpdatedAt = now
	if _, err := db.NewInsert().Model(ledger).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	return nil
}

func (r *Impl) Get(ctx context.Context, db bun.IDB, playerID, leaderboardID uuid.UUID) (*Ledger, error) {
	return r.get(ctx, r.resolveDB(db), playerID, leaderboardID, false)
}

func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, playerID, leaderboardID uuid.UUID) (*Ledger, error) {
	return r.get(ctx, r.resolveDB(db), playerID, leaderboardID, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, playerID, leaderboardID uuid.UUID, lock bool) (*Ledger, error) {
	ledger := new(Ledger)
	q := db.NewSelect().
		Model(ledger).
		Where("ld.player_id = ?", playerID).
		Where("ld.leaderboard_id = ?", leaderboardID)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return ledger, nil
}

func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*Ledger, error) {
	db = r.resolveDB(db)
	var ledgers []*Ledger
	err := db.NewSelect().
		Model(&ledgers).
		Where("ld.player_id = ?", playerID).
		Order("ld.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return ledgers, nil
}

func (r *Impl) UpdateCounts(ctx context.Context, db bun.IDB, ledger *Ledger) error {
	db = r.resolveDB(db)
	ledger.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(ledger).
		Column("length", "capacity", "last_score", "last_timestamp", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
