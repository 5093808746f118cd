package leaderboarddb

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

// ErrNotFound is returned when a leaderboard is not found.
var ErrNotFound = fmt.Errorf("leaderboard %w", scoreerrors.ErrNotFound)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, lb *Leaderboard) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if lb.CreatedAt.IsZero() {
		lb.CreatedAt = now
	}
	lb.UpdatedAt = now
	if _, err := db.NewInsert().Model(lb).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create leaderboard: %w", err)
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Leaderboard, error) {
	return r.get(ctx, r.resolveDB(db), id, false)
}

func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Leaderboard, error) {
	return r.get(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, id uuid.UUID, lock bool) (*Leaderboard, error) {
	lb := new(Leaderboard)
	q := db.NewSelect().Model(lb).Where("l.id = ?", id)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return lb, nil
}

func (r *Impl) ListByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]*Leaderboard, error) {
	db = r.resolveDB(db)
	var lbs []*Leaderboard
	if err := db.NewSelect().Model(&lbs).Where("l.game_id = ?", gameID).Order("l.created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list leaderboards: %w", err)
	}
	return lbs, nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, lb *Leaderboard) error {
	db = r.resolveDB(db)
	lb.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(lb).
		Column("description", "bounds", "ordering", "allow_multiple", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
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
