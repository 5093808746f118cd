package gameservice

import (
	"context"

	gamedb "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace []string

	CreateFunc       func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	GetByIDFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*gamedb.Game, error)
	GetForUpdateFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) (*gamedb.Game, error)
	UpdateFunc       func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace: []string{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) Create(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, game)
	}
	return nil
}

func (f *FakeGameRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*gamedb.Game, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*gamedb.Game, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, db, id)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) Update(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, game)
	}
	return nil
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)
