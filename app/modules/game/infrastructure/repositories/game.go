package gamedb

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

// ErrNotFound is returned when a game is not found.
var ErrNotFound = fmt.Errorf("game %w", scoreerrors.ErrNotFound)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	game.UpdatedAt = now
	if _, err := db.NewInsert().Model(game).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Game, error) {
	return r.get(ctx, r.resolveDB(db), id, false)
}

func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Game, error) {
	return r.get(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, id uuid.UUID, lock bool) (*Game, error) {
	game := new(Game)
	q := db.NewSelect().Model(game).Where("g.id = ?", id)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	game.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(game).
		Column("title", "description", "genre", "game_type", "authorities", "authority_capacity", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
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
