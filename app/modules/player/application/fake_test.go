package playerservice

import (
	"context"

	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace []string

	CreateFunc         func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	GetByIDFunc        func(ctx context.Context, db bun.IDB, id uuid.UUID) (*playerdb.Player, error)
	ListByOwnerFunc    func(ctx context.Context, db bun.IDB, owner sharedtypes.UserID) ([]*playerdb.Player, error)
	UpdateUsernameFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, username string) error
	UpdateOwnerFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID, owner sharedtypes.UserID) error
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{trace: []string{}}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakePlayerRepo) Create(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*playerdb.Player, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) ListByOwner(ctx context.Context, db bun.IDB, owner sharedtypes.UserID) ([]*playerdb.Player, error) {
	f.record("ListByOwner")
	if f.ListByOwnerFunc != nil {
		return f.ListByOwnerFunc(ctx, db, owner)
	}
	return nil, nil
}

func (f *FakePlayerRepo) UpdateUsername(ctx context.Context, db bun.IDB, id uuid.UUID, username string) error {
	f.record("UpdateUsername")
	if f.UpdateUsernameFunc != nil {
		return f.UpdateUsernameFunc(ctx, db, id, username)
	}
	return nil
}

func (f *FakePlayerRepo) UpdateOwner(ctx context.Context, db bun.IDB, id uuid.UUID, owner sharedtypes.UserID) error {
	f.record("UpdateOwner")
	if f.UpdateOwnerFunc != nil {
		return f.UpdateOwnerFunc(ctx, db, id, owner)
	}
	return nil
}

var _ playerdb.Repository = (*FakePlayerRepo)(nil)
