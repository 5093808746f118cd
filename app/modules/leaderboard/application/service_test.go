package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type testEnv struct {
	svc       *LeaderboardService
	repo      *FakeLeaderboardRepo
	games     *FakeGameAuthorizer
	substrate *storage.MemorySubstrate
	gameID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:      NewFakeLeaderboardRepo(),
		games:     NewFakeGameAuthorizer(),
		substrate: storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1}),
		gameID:    uuid.New(),
	}
	env.games.Grant(env.gameID, "admin")
	env.svc = NewLeaderboardService(env.repo, env.games, env.substrate, slog.Default(), observability.NewNoopMetrics(), noop.NewTracerProvider().Tracer("test"), nil)
	return env
}

func (e *testEnv) create(t *testing.T, input leaderboarddomain.Input) *leaderboarddomain.Leaderboard {
	t.Helper()
	lb, err := e.svc.CreateLeaderboard(context.Background(), "admin", e.gameID, input)
	require.NoError(t, err)
	return lb
}

func scores(entries []leaderboarddomain.Entry) []uint64 {
	out := make([]uint64, len(entries))
	for i, e := range entries {
		out[i] = e.Record.Score
	}
	return out
}

func TestCreateLeaderboard(t *testing.T) {
	tests := []struct {
		name        string
		caller      sharedtypes.UserID
		input       leaderboarddomain.Input
		wantErrType error
		wantRanked  bool
	}{
		{
			name:       "ranked leaderboard allocates ranking",
			caller:     "admin",
			input:      leaderboarddomain.Input{Ordering: sharedtypes.Ascending, RetainCount: 3},
			wantRanked: true,
		},
		{
			name:   "unranked leaderboard",
			caller: "admin",
			input:  leaderboarddomain.Input{},
		},
		{
			name:        "non authority",
			caller:      "mallory",
			input:       leaderboarddomain.Input{RetainCount: 3},
			wantErrType: scoreerrors.ErrNotAuthorized,
		},
		{
			name:        "invalid bounds",
			caller:      "admin",
			input:       leaderboarddomain.Input{Bounds: &sharedtypes.Bounds{Min: 9, Max: 1}},
			wantErrType: leaderboarddomain.ErrInvalidBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			lb, err := env.svc.CreateLeaderboard(context.Background(), tt.caller, env.gameID, tt.input)
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Empty(t, env.repo.Trace())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRanked, lb.RankingHandle != uuid.Nil)
			assert.Equal(t, []string{"Create"}, env.repo.Trace())

			if tt.wantRanked {
				size, err := env.substrate.Size(context.Background(), nil, lb.RankingHandle)
				require.NoError(t, err)
				assert.Equal(t, leaderboarddomain.RankingLayout.Size(tt.input.RetainCount), size)

				entries, err := env.svc.GetRanking(context.Background(), lb.ID)
				require.NoError(t, err)
				assert.Empty(t, entries)
			}
		})
	}
}

func TestConsiderScore_AscendingKeepsBestThree(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{Ordering: sharedtypes.Ascending, RetainCount: 3, AllowMultiple: true})
	player := uuid.New()

	for i, score := range []uint64{50, 10, 30, 5} {
		_, err := env.svc.ConsiderScore(context.Background(), lb.ID, player, sharedtypes.ScoreRecord{Score: score, Timestamp: int64(i)})
		require.NoError(t, err)
	}

	entries, err := env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 10, 30}, scores(entries))
}

func TestConsiderScore_SingleSlotPerPlayer(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{Ordering: sharedtypes.Descending, RetainCount: 2})
	p1, p2 := uuid.New(), uuid.New()

	submit := func(p uuid.UUID, score uint64, ts int64) *leaderboarddomain.RankingUpdate {
		update, err := env.svc.ConsiderScore(context.Background(), lb.ID, p, sharedtypes.ScoreRecord{Score: score, Timestamp: ts})
		require.NoError(t, err)
		return update
	}

	submit(p1, 10, 1)
	submit(p2, 20, 2)
	update := submit(p1, 15, 3)
	require.True(t, update.Changed())
	assert.Nil(t, update.Outcome.Displaced)
	assert.Equal(t, 1, update.Outcome.Rank)

	entries, err := env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, p2, entries[0].PlayerID)
	assert.Equal(t, p1, entries[1].PlayerID)
	assert.Equal(t, []uint64{20, 15}, scores(entries))

	ranked, err := env.svc.IsPlayerRanked(context.Background(), lb.ID, p1)
	require.NoError(t, err)
	assert.True(t, ranked)

	ranked, err = env.svc.IsPlayerRanked(context.Background(), lb.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ranked)
}

func TestConsiderScore_OutOfBounds(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{RetainCount: 2, Bounds: &sharedtypes.Bounds{Min: 1, Max: 100}})

	_, err := env.svc.ConsiderScore(context.Background(), lb.ID, uuid.New(), sharedtypes.ScoreRecord{Score: 101})
	assert.ErrorIs(t, err, scoreerrors.ErrScoreOutOfBounds)

	entries, err := env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConsiderScore_Unranked(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{})

	update, err := env.svc.ConsiderScore(context.Background(), lb.ID, uuid.New(), sharedtypes.ScoreRecord{Score: 7})
	require.NoError(t, err)
	assert.Nil(t, update)
	assert.False(t, update.Changed())
}

func TestUpdateLeaderboard_OrderingResortsRanking(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{Ordering: sharedtypes.Descending, RetainCount: 3, AllowMultiple: true})
	for i, score := range []uint64{10, 30, 20} {
		_, err := env.svc.ConsiderScore(context.Background(), lb.ID, uuid.New(), sharedtypes.ScoreRecord{Score: score, Timestamp: int64(i)})
		require.NoError(t, err)
	}

	asc := sharedtypes.Ascending
	updated, err := env.svc.UpdateLeaderboard(context.Background(), "admin", lb.ID, leaderboarddomain.Update{Ordering: &asc})
	require.NoError(t, err)
	assert.Equal(t, sharedtypes.Ascending, updated.Ordering)

	entries, err := env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 20, 30}, scores(entries))

	_, err = env.svc.UpdateLeaderboard(context.Background(), "mallory", lb.ID, leaderboarddomain.Update{Ordering: &asc})
	assert.ErrorIs(t, err, scoreerrors.ErrNotAuthorized)

	_, err = env.svc.UpdateLeaderboard(context.Background(), "admin", uuid.New(), leaderboarddomain.Update{})
	assert.ErrorIs(t, err, leaderboarddb.ErrNotFound)
}

func TestUpdateLeaderboard_ShortOrderingName(t *testing.T) {
	tests := []struct {
		name        string
		retainCount int
		ordering    string
	}{
		{name: "ranked", retainCount: 3, ordering: "asc"},
		{name: "ranked upper case", retainCount: 3, ordering: "ASC"},
		{name: "unranked", retainCount: 0, ordering: "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			lb := env.create(t, leaderboarddomain.Input{Ordering: sharedtypes.Descending, RetainCount: tt.retainCount, AllowMultiple: true})
			for i, score := range []uint64{50, 5} {
				_, err := env.svc.ConsiderScore(context.Background(), lb.ID, uuid.New(), sharedtypes.ScoreRecord{Score: score, Timestamp: int64(i)})
				require.NoError(t, err)
			}

			ordering := sharedtypes.Ordering(tt.ordering)
			updated, err := env.svc.UpdateLeaderboard(context.Background(), "admin", lb.ID, leaderboarddomain.Update{Ordering: &ordering})
			require.NoError(t, err)
			assert.Equal(t, sharedtypes.Ascending, updated.Ordering)

			stored, err := env.svc.GetLeaderboard(context.Background(), lb.ID)
			require.NoError(t, err)
			assert.Equal(t, sharedtypes.Ascending, stored.Ordering)

			entries, err := env.svc.GetRanking(context.Background(), lb.ID)
			require.NoError(t, err)
			if tt.retainCount > 0 {
				assert.Equal(t, []uint64{5, 50}, scores(entries))
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestUpdateLeaderboard_DisallowMultipleCollapsesPlayers(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{Ordering: sharedtypes.Descending, RetainCount: 4, AllowMultiple: true})
	p1, p2 := uuid.New(), uuid.New()
	submissions := []struct {
		player uuid.UUID
		score  uint64
	}{
		{p1, 50}, {p1, 40}, {p2, 30}, {p1, 20},
	}
	for i, sub := range submissions {
		_, err := env.svc.ConsiderScore(context.Background(), lb.ID, sub.player, sharedtypes.ScoreRecord{Score: sub.score, Timestamp: int64(i)})
		require.NoError(t, err)
	}

	off := false
	updated, err := env.svc.UpdateLeaderboard(context.Background(), "admin", lb.ID, leaderboarddomain.Update{AllowMultiple: &off})
	require.NoError(t, err)
	assert.False(t, updated.AllowMultiple)

	entries, err := env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, p1, entries[0].PlayerID)
	assert.Equal(t, uint64(50), entries[0].Record.Score)
	assert.Equal(t, p2, entries[1].PlayerID)

	// A worse score from p1 must not claim a second slot.
	update, err := env.svc.ConsiderScore(context.Background(), lb.ID, p1, sharedtypes.ScoreRecord{Score: 45, Timestamp: 10})
	require.NoError(t, err)
	assert.False(t, update.Changed())

	update, err = env.svc.ConsiderScore(context.Background(), lb.ID, p1, sharedtypes.ScoreRecord{Score: 60, Timestamp: 11})
	require.NoError(t, err)
	assert.True(t, update.Changed())

	entries, err = env.svc.GetRanking(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{60, 30}, scores(entries))
}

func TestUpdateLeaderboard_RepositoryError(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{})
	env.repo.UpdateFunc = func(context.Context, bun.IDB, *leaderboarddb.Leaderboard) error {
		return errors.New("connection reset")
	}

	desc := "new"
	_, err := env.svc.UpdateLeaderboard(context.Background(), "admin", lb.ID, leaderboarddomain.Update{Description: &desc})
	require.Error(t, err)
	assert.False(t, scoreerrors.IsDomain(err))
}

func TestRenderRankingChart(t *testing.T) {
	env := newTestEnv(t)
	lb := env.create(t, leaderboarddomain.Input{RetainCount: 3, Decimals: 2})

	empty, err := env.svc.RenderRankingChart(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("\x89PNG")))

	_, err = env.svc.ConsiderScore(context.Background(), lb.ID, uuid.New(), sharedtypes.ScoreRecord{Score: 1234})
	require.NoError(t, err)

	png, err := env.svc.RenderRankingChart(context.Background(), lb.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
