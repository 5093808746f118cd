package achievementservice

import (
	"context"

	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Games
// ------------------------

type FakeGames struct {
	authorities map[uuid.UUID]sharedtypes.UserID
}

func NewFakeGames() *FakeGames {
	return &FakeGames{authorities: make(map[uuid.UUID]sharedtypes.UserID)}
}

func (f *FakeGames) Authorize(_ context.Context, _ bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	authority, ok := f.authorities[gameID]
	if !ok {
		return false, nil
	}
	return authority == caller, nil
}

// ------------------------
// Fake Players
// ------------------------

type FakePlayers struct {
	owners map[uuid.UUID]sharedtypes.UserID
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

// ------------------------
// Fake Rankings
// ------------------------

type FakeRankings struct {
	trace  []string
	boards map[uuid.UUID]*leaderboarddomain.Leaderboard
	ranked map[uuid.UUID]map[uuid.UUID]bool

	IsRankedFunc func(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID) (bool, error)
}

func NewFakeRankings() *FakeRankings {
	return &FakeRankings{
		trace:  []string{},
		boards: make(map[uuid.UUID]*leaderboarddomain.Leaderboard),
		ranked: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *FakeRankings) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRankings) Add(lb *leaderboarddomain.Leaderboard, ranked ...uuid.UUID) {
	f.boards[lb.ID] = lb
	f.ranked[lb.ID] = make(map[uuid.UUID]bool)
	for _, p := range ranked {
		f.ranked[lb.ID][p] = true
	}
}

func (f *FakeRankings) Lookup(_ context.Context, _ bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error) {
	f.trace = append(f.trace, "Lookup")
	lb, ok := f.boards[leaderboardID]
	if !ok {
		return nil, leaderboarddb.ErrNotFound
	}
	return lb, nil
}

func (f *FakeRankings) IsRanked(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID) (bool, error) {
	f.trace = append(f.trace, "IsRanked")
	if f.IsRankedFunc != nil {
		return f.IsRankedFunc(ctx, db, leaderboardID, playerID)
	}
	if _, ok := f.boards[leaderboardID]; !ok {
		return false, leaderboarddb.ErrNotFound
	}
	return f.ranked[leaderboardID][playerID], nil
}

// ------------------------
// Fake Reward Queue
// ------------------------

type FakeRewardQueue struct {
	jobs []achievementqueue.IssueRewardJob

	EnqueueFunc func(ctx context.Context, job achievementqueue.IssueRewardJob) error
}

func (f *FakeRewardQueue) EnqueueRewardIssue(ctx context.Context, job achievementqueue.IssueRewardJob) error {
	if f.EnqueueFunc != nil {
		if err := f.EnqueueFunc(ctx, job); err != nil {
			return err
		}
	}
	f.jobs = append(f.jobs, job)
	return nil
}
