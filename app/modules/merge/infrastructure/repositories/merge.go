package mergedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	mergedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/domain"
	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a merge is not found.
var ErrNotFound = fmt.Errorf("merge %w", scoreerrors.ErrNotFound)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new merge repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, merge *Merge) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if merge.CreatedAt.IsZero() {
		merge.CreatedAt = now
	}
	merge.UpdatedAt = now
	if merge.Complete && merge.CompletedAt == nil {
		merge.CompletedAt = &now
	}
	if _, err := db.NewInsert().Model(merge).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create merge: %w", err)
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Merge, error) {
	return r.get(ctx, r.resolveDB(db), id, false)
}

func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Merge, error) {
	return r.get(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, id uuid.UUID, lock bool) (*Merge, error) {
	merge := new(Merge)
	q := db.NewSelect().Model(merge).Where("m.id = ?", id)
	if lock {
		q = bundb.ForUpdate(db, q)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get merge: %w", err)
	}
	return merge, nil
}

func (r *Impl) UpdateApprovals(ctx context.Context, db bun.IDB, merge *Merge) error {
	db = r.resolveDB(db)
	merge.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(merge).
		Column("participants", "complete", "completed_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update merge: %w", err)
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

// ListByPlayer filters participants in Go; the jsonb containment operator has
// no sqlite equivalent.
func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, playerID uuid.UUID) ([]*Merge, error) {
	db = r.resolveDB(db)
	var merges []*Merge
	if err := db.NewSelect().Model(&merges).Order("m.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list merges: %w", err)
	}

	out := merges[:0]
	for _, m := range merges {
		if m.Initiator == playerID || slices.ContainsFunc(m.Participants, func(p mergedomain.Participant) bool {
			return p.PlayerID == playerID
		}) {
			out = append(out, m)
		}
	}
	return out, nil
}
