package leaderboardservice

import (
	"context"

	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

// FakeLeaderboardRepo stores rows in memory unless a Func override is set.
type FakeLeaderboardRepo struct {
	trace []string
	rows  map[uuid.UUID]leaderboarddb.Leaderboard

	CreateFunc       func(ctx context.Context, db bun.IDB, lb *leaderboarddb.Leaderboard) error
	GetForUpdateFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaderboarddb.Leaderboard, error)
	UpdateFunc       func(ctx context.Context, db bun.IDB, lb *leaderboarddb.Leaderboard) error
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace: []string{},
		rows:  make(map[uuid.UUID]leaderboarddb.Leaderboard),
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardRepo) Create(ctx context.Context, db bun.IDB, lb *leaderboarddb.Leaderboard) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, lb)
	}
	f.rows[lb.ID] = *lb
	return nil
}

func (f *FakeLeaderboardRepo) GetByID(_ context.Context, _ bun.IDB, id uuid.UUID) (*leaderboarddb.Leaderboard, error) {
	f.record("GetByID")
	return f.get(id)
}

func (f *FakeLeaderboardRepo) GetForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*leaderboarddb.Leaderboard, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, db, id)
	}
	return f.get(id)
}

func (f *FakeLeaderboardRepo) ListByGame(_ context.Context, _ bun.IDB, gameID uuid.UUID) ([]*leaderboarddb.Leaderboard, error) {
	f.record("ListByGame")
	var out []*leaderboarddb.Leaderboard
	for _, row := range f.rows {
		if row.GameID == gameID {
			r := row
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *FakeLeaderboardRepo) Update(ctx context.Context, db bun.IDB, lb *leaderboarddb.Leaderboard) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, lb)
	}
	if _, ok := f.rows[lb.ID]; !ok {
		return leaderboarddb.ErrNotFound
	}
	f.rows[lb.ID] = *lb
	return nil
}

func (f *FakeLeaderboardRepo) get(id uuid.UUID) (*leaderboarddb.Leaderboard, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	return &row, nil
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Game Authorizer
// ------------------------

type FakeGameAuthorizer struct {
	authorities map[uuid.UUID][]sharedtypes.UserID
	err         error
}

func NewFakeGameAuthorizer() *FakeGameAuthorizer {
	return &FakeGameAuthorizer{authorities: make(map[uuid.UUID][]sharedtypes.UserID)}
}

func (f *FakeGameAuthorizer) Grant(gameID uuid.UUID, user sharedtypes.UserID) {
	f.authorities[gameID] = append(f.authorities[gameID], user)
}

func (f *FakeGameAuthorizer) Authorize(_ context.Context, _ bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.authorities[gameID] {
		if u == caller {
			return true, nil
		}
	}
	return false, nil
}

var _ GameAuthorizer = (*FakeGameAuthorizer)(nil)
