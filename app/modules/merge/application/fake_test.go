package mergeservice

import (
	"context"

	mergedb "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Merge Repo
// ------------------------

type FakeMergeRepo struct {
	trace []string
	rows  map[uuid.UUID]mergedb.Merge

	UpdateApprovalsFunc func(ctx context.Context, db bun.IDB, merge *mergedb.Merge) error
}

func NewFakeMergeRepo() *FakeMergeRepo {
	return &FakeMergeRepo{trace: []string{}, rows: make(map[uuid.UUID]mergedb.Merge)}
}

func (f *FakeMergeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMergeRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMergeRepo) Create(_ context.Context, _ bun.IDB, merge *mergedb.Merge) error {
	f.record("Create")
	f.rows[merge.ID] = clone(merge)
	return nil
}

func (f *FakeMergeRepo) GetByID(_ context.Context, _ bun.IDB, id uuid.UUID) (*mergedb.Merge, error) {
	f.record("GetByID")
	return f.get(id)
}

func (f *FakeMergeRepo) GetForUpdate(_ context.Context, _ bun.IDB, id uuid.UUID) (*mergedb.Merge, error) {
	f.record("GetForUpdate")
	return f.get(id)
}

func (f *FakeMergeRepo) UpdateApprovals(ctx context.Context, db bun.IDB, merge *mergedb.Merge) error {
	f.record("UpdateApprovals")
	if f.UpdateApprovalsFunc != nil {
		return f.UpdateApprovalsFunc(ctx, db, merge)
	}
	f.rows[merge.ID] = clone(merge)
	return nil
}

func (f *FakeMergeRepo) ListByPlayer(_ context.Context, _ bun.IDB, playerID uuid.UUID) ([]*mergedb.Merge, error) {
	f.record("ListByPlayer")
	var out []*mergedb.Merge
	for _, row := range f.rows {
		if row.Initiator == playerID {
			m := clone(&row)
			out = append(out, &m)
		}
	}
	return out, nil
}

func (f *FakeMergeRepo) get(id uuid.UUID) (*mergedb.Merge, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, mergedb.ErrNotFound
	}
	m := clone(&row)
	return &m, nil
}

// clone copies the participant slice so stored rows are not aliased.
func clone(m *mergedb.Merge) mergedb.Merge {
	out := *m
	out.Participants = append(out.Participants[:0:0], m.Participants...)
	return out
}

var _ mergedb.Repository = (*FakeMergeRepo)(nil)

// ------------------------
// Fake Players
// ------------------------

type FakePlayers struct {
	owners     map[uuid.UUID]sharedtypes.UserID
	reassigned []uuid.UUID
}

func NewFakePlayers() *FakePlayers {
	return &FakePlayers{owners: make(map[uuid.UUID]sharedtypes.UserID)}
}

func (f *FakePlayers) Owner(_ context.Context, _ bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error) {
	owner, ok := f.owners[playerID]
	if !ok {
		return "", playerdb.ErrNotFound
	}
	return owner, nil
}

func (f *FakePlayers) Reassign(_ context.Context, _ bun.IDB, playerID uuid.UUID, owner sharedtypes.UserID) error {
	if _, ok := f.owners[playerID]; !ok {
		return playerdb.ErrNotFound
	}
	f.owners[playerID] = owner
	f.reassigned = append(f.reassigned, playerID)
	return nil
}

var _ Players = (*FakePlayers)(nil)
