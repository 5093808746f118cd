package scoreservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Ledger Repo
// ------------------------

type ledgerKey struct {
	player, leaderboard uuid.UUID
}

// FakeLedgerRepo stores rows in memory unless a Func override is set.
type FakeLedgerRepo struct {
	trace []string
	rows  map[ledgerKey]scoredb.Ledger

	UpdateCountsFunc func(ctx context.Context, db bun.IDB, ledger *scoredb.Ledger) error
}

func NewFakeLedgerRepo() *FakeLedgerRepo {
	return &FakeLedgerRepo{trace: []string{}, rows: make(map[ledgerKey]scoredb.Ledger)}
}

func (f *FakeLedgerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLedgerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLedgerRepo) Create(_ context.Context, _ bun.IDB, ledger *scoredb.Ledger) error {
	f.record("Create")
	key := ledgerKey{ledger.PlayerID, ledger.LeaderboardID}
	if _, ok := f.rows[key]; ok {
		return scoredb.ErrAlreadyRegistered
	}
	f.rows[key] = *ledger
	return nil
}

func (f *FakeLedgerRepo) Get(_ context.Context, _ bun.IDB, playerID, leaderboardID uuid.UUID) (*scoredb.Ledger, error) {
	f.record("Get")
	return f.get(playerID, leaderboardID)
}

func (f *FakeLedgerRepo) GetForUpdate(_ context.Context, _ bun.IDB, playerID, leaderboardID uuid.UUID) (*scoredb.Ledger, error) {
	f.record("GetForUpdate")
	return f.get(playerID, leaderboardID)
}

func (f *FakeLedgerRepo) ListByPlayer(_ context.Context, _ bun.IDB, playerID uuid.UUID) ([]*scoredb.Ledger, error) {
	f.record("ListByPlayer")
	var out []*scoredb.Ledger
	for key, row := range f.rows {
		if key.player == playerID {
			r := row
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *FakeLedgerRepo) UpdateCounts(ctx context.Context, db bun.IDB, ledger *scoredb.Ledger) error {
	f.record("UpdateCounts")
	if f.UpdateCountsFunc != nil {
		return f.UpdateCountsFunc(ctx, db, ledger)
	}
	f.rows[ledgerKey{ledger.PlayerID, ledger.LeaderboardID}] = *ledger
	return nil
}

func (f *FakeLedgerRepo) get(playerID, leaderboardID uuid.UUID) (*scoredb.Ledger, error) {
	row, ok := f.rows[ledgerKey{playerID, leaderboardID}]
	if !ok {
		return nil, scoredb.ErrNotFound
	}
	return &row, nil
}

var _ scoredb.Repository = (*FakeLedgerRepo)(nil)

// ------------------------
// Fake Leaderboards
// ------------------------

// FakeLeaderboards keeps rankings in memory.
type FakeLeaderboards struct {
	boards   map[uuid.UUID]*leaderboarddomain.Leaderboard
	rankings map[uuid.UUID]*leaderboarddomain.Ranking

	ConsiderFunc func(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error)
}

func NewFakeLeaderboards() *FakeLeaderboards {
	return &FakeLeaderboards{
		boards:   make(map[uuid.UUID]*leaderboarddomain.Leaderboard),
		rankings: make(map[uuid.UUID]*leaderboarddomain.Ranking),
	}
}

func (f *FakeLeaderboards) Add(lb *leaderboarddomain.Leaderboard) {
	f.boards[lb.ID] = lb
	f.rankings[lb.ID] = leaderboarddomain.NewRanking(lb.Ordering, lb.RetainCount)
}

func (f *FakeLeaderboards) Lookup(_ context.Context, _ bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	lb, ok := f.boards[leaderboardID]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	return lb, nil
}

func (f *FakeLeaderboards) Consider(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
	if f.ConsiderFunc != nil {
		return f.ConsiderFunc(ctx, db, leaderboardID, playerID, record)
	}
	lb, err := f.Lookup(ctx, db, leaderboardID)
	if err != nil {
		return nil, err
	}
	if !lb.Ranked() {
		return nil, nil
	}
	ranking := f.rankings[leaderboardID]
	outcome := ranking.Consider(playerID, record, lb.AllowMultiple)
	return &leaderboarddomain.RankingUpdate{
		LeaderboardID: lb.ID,
		GameID:        lb.GameID,
		PlayerID:      playerID,
		Outcome:       outcome,
		Entries:       ranking.Entries(),
	}, nil
}

var _ Leaderboards = (*FakeLeaderboards)(nil)

// ------------------------
// Fake Games and Players
// ------------------------

type FakeGames struct {
	authorities map[uuid.UUID]sharedtypes.UserID
}

func (f *FakeGames) Authorize(_ context.Context, _ bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	return f.authorities[gameID] == caller, nil
}

type FakePlayers struct {
	owners map[uuid.UUID]sharedtypes.UserID
}

func (f *FakePlayers) Owner(_ context.Context, _ bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error) {
	owner, ok := f.owners[playerID]
	if !ok {
		return "", playerdb.ErrNotFound
	}
	return owner, nil
}

var (
	_ GameAuthorizer = (*FakeGames)(nil)
	_ Players        = (*FakePlayers)(nil)
)
