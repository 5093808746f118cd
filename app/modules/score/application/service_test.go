package scoreservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
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

const (
	authority = sharedtypes.UserID("authority")
	owner     = sharedtypes.UserID("owner")
)

type testEnv struct {
	svc          *ScoreService
	repo         *FakeLedgerRepo
	leaderboards *FakeLeaderboards
	substrate    *storage.MemorySubstrate
	board        *leaderboarddomain.Leaderboard
	playerID     uuid.UUID
}

func newTestEnv(t *testing.T, retain int) *testEnv {
	t.Helper()

	gameID := uuid.New()
	playerID := uuid.New()
	board := &leaderboarddomain.Leaderboard{
		ID:          uuid.New(),
		GameID:      gameID,
		Bounds:      sharedtypes.Bounds{Min: 0, Max: 1000},
		Ordering:    sharedtypes.Descending,
		RetainCount: retain,
	}

	repo := NewFakeLedgerRepo()
	leaderboards := NewFakeLeaderboards()
	leaderboards.Add(board)
	games := &FakeGames{authorities: map[uuid.UUID]sharedtypes.UserID{gameID: authority}}
	players := &FakePlayers{owners: map[uuid.UUID]sharedtypes.UserID{playerID: owner}}
	substrate := storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1})
	require.NoError(t, substrate.OpenAccount(context.Background(), nil, playerdomain.FundingAccount(owner)))

	svc := NewScoreService(repo, leaderboards, games, players, substrate, capacity.DefaultPolicy(),
		slog.Default(), observability.NewNoopMetrics(), noop.NewTracerProvider().Tracer("test"), nil)

	return &testEnv{
		svc:          svc,
		repo:         repo,
		leaderboards: leaderboards,
		substrate:    substrate,
		board:        board,
		playerID:     playerID,
	}
}

func (e *testEnv) register(t *testing.T) {
	t.Helper()
	_, err := e.svc.RegisterPlayerForLeaderboard(context.Background(), owner, e.playerID, e.board.ID)
	require.NoError(t, err)
}

func (e *testEnv) submit(score uint64, ts int64) (*SubmitOutcome, error) {
	return e.svc.SubmitScore(context.Background(), authority, e.playerID, e.board.ID,
		sharedtypes.ScoreRecord{Score: score, Timestamp: ts})
}

func (e *testEnv) fill(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.submit(uint64(i), int64(i))
		require.NoError(t, err)
	}
}

func TestRegisterPlayerForLeaderboard(t *testing.T) {
	tests := []struct {
		name    string
		caller  sharedtypes.UserID
		twice   bool
		wantErr error
	}{
		{name: "owner registers", caller: owner},
		{name: "someone else", caller: "stranger", wantErr: scoreerrors.ErrMissingApproval},
		{name: "already registered", caller: owner, twice: true, wantErr: scoreerrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 3)
			if tt.twice {
				env.register(t)
			}

			summary, err := env.svc.RegisterPlayerForLeaderboard(context.Background(), tt.caller, env.playerID, env.board.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, summary.Length)
			assert.Equal(t, capacity.DefaultInitial, summary.Capacity)
			assert.Nil(t, summary.Last)
		})
	}
}

func TestRegisterPlayerForLeaderboard_UnknownLeaderboard(t *testing.T) {
	env := newTestEnv(t, 3)
	_, err := env.svc.RegisterPlayerForLeaderboard(context.Background(), owner, env.playerID, uuid.New())
	assert.ErrorIs(t, err, scoreerrors.ErrNotFound)
	assert.Empty(t, env.repo.Trace())
}

func TestSubmitScore_GrowsLedgerWhenFunded(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)
	account := playerdomain.FundingAccount(owner)
	require.NoError(t, env.substrate.Deposit(context.Background(), nil, account, 160))

	env.fill(t, 10)
	summary, err := env.svc.GetLedgerSummary(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Length)
	assert.Equal(t, 10, summary.Capacity)

	outcome, err := env.submit(500, 100)
	require.NoError(t, err)
	assert.True(t, outcome.Grew)
	assert.Equal(t, 10, outcome.PreviousCapacity)
	assert.Equal(t, 20, outcome.Capacity)
	assert.Equal(t, 11, outcome.Length)
	assert.Equal(t, 10, outcome.Position)

	balance, err := env.substrate.Balance(context.Background(), nil, account)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	ledger, err := env.svc.GetLedger(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, ledger.Capacity)
	require.Equal(t, 11, ledger.Len())
	last, _ := ledger.Last()
	assert.Equal(t, sharedtypes.ScoreRecord{Score: 500, Timestamp: 100}, last)
}

func TestSubmitScore_InsufficientFundsLeavesLedgerUnchanged(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)
	require.NoError(t, env.substrate.Deposit(context.Background(), nil, playerdomain.FundingAccount(owner), 159))

	env.fill(t, 10)
	_, err := env.submit(500, 100)
	assert.ErrorIs(t, err, scoreerrors.ErrInsufficientCapacityFunds)

	ledger, err := env.svc.GetLedger(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, ledger.Len())
	assert.Equal(t, 10, ledger.Capacity)

	summary, err := env.svc.GetLedgerSummary(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Length)
	assert.Equal(t, uint64(9), summary.Last.Score)
}

func TestSubmitScore_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		caller  sharedtypes.UserID
		score   uint64
		wantErr error
	}{
		{name: "out of bounds", caller: authority, score: 1001, wantErr: scoreerrors.ErrScoreOutOfBounds},
		{name: "not an authority", caller: owner, score: 10, wantErr: scoreerrors.ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 3)
			env.register(t)

			_, err := env.svc.SubmitScore(context.Background(), tt.caller, env.playerID, env.board.ID,
				sharedtypes.ScoreRecord{Score: tt.score, Timestamp: 1})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, scoreerrors.IsDomain(err))

			ledger, err := env.svc.GetLedger(context.Background(), env.playerID, env.board.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, ledger.Len())
			assert.NotContains(t, env.repo.Trace(), "UpdateCounts")
		})
	}
}

func TestSubmitScore_UnregisteredPlayer(t *testing.T) {
	env := newTestEnv(t, 3)
	_, err := env.submit(10, 1)
	assert.ErrorIs(t, err, scoredb.ErrNotFound)
}

func TestSubmitScore_UpdatesRanking(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)

	outcome, err := env.submit(42, 1)
	require.NoError(t, err)
	require.NotNil(t, outcome.Ranking)
	assert.True(t, outcome.Ranking.Changed())
	assert.Equal(t, 0, outcome.Ranking.Outcome.Rank)
	require.Len(t, outcome.Ranking.Entries, 1)
	assert.Equal(t, env.playerID, outcome.Ranking.Entries[0].PlayerID)
}

func TestSubmitScore_UnrankedLeaderboard(t *testing.T) {
	env := newTestEnv(t, 0)
	env.register(t)

	outcome, err := env.submit(42, 1)
	require.NoError(t, err)
	assert.Nil(t, outcome.Ranking)
	assert.Equal(t, 1, outcome.Length)
}

func TestSubmitScore_RankingErrorIsInfrastructure(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)
	env.leaderboards.ConsiderFunc = func(context.Context, bun.IDB, uuid.UUID, uuid.UUID, sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error) {
		return nil, errors.New("ranking blob corrupt")
	}

	_, err := env.submit(42, 1)
	require.Error(t, err)
	assert.False(t, scoreerrors.IsDomain(err))
	assert.Contains(t, err.Error(), "failed to update ranking")
}

func TestImportScores(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)
	env.svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	stranger := uuid.New()
	csv := "player_id,score,timestamp\n" +
		env.playerID.String() + ",120,1600000000\n" +
		env.playerID.String() + ",5000\n" +
		stranger.String() + ",10\n" +
		"not-a-uuid,10\n" +
		env.playerID.String() + ",80\n"

	res, err := env.svc.ImportScores(context.Background(), authority, env.board.ID, "week1.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, res, 5)

	assert.True(t, res[0].Accepted)
	assert.Equal(t, int64(1600000000), res[0].Outcome.Record.Timestamp)
	assert.False(t, res[1].Accepted)
	assert.NotEmpty(t, res[1].Reason)
	assert.False(t, res[2].Accepted)
	assert.False(t, res[3].Accepted)
	assert.True(t, res[4].Accepted)
	assert.Equal(t, int64(1700000000), res[4].Outcome.Record.Timestamp)

	summary, err := env.svc.GetLedgerSummary(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Length)
}

func TestImportScores_UnsupportedFile(t *testing.T) {
	env := newTestEnv(t, 3)
	_, err := env.svc.ImportScores(context.Background(), authority, env.board.ID, "scores.txt", []byte("x"))
	assert.ErrorIs(t, err, scoreerrors.ErrInvalidArgument)
}

func TestListLedgers(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)
	_, err := env.submit(7, 1)
	require.NoError(t, err)

	list, err := env.svc.ListLedgers(context.Background(), env.playerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, env.board.ID, list[0].LeaderboardID)
	assert.Equal(t, 1, list[0].Length)
}

func TestRenderHistoryChart(t *testing.T) {
	env := newTestEnv(t, 3)
	env.register(t)

	png, err := env.svc.RenderHistoryChart(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	env.fill(t, 3)
	png, err = env.svc.RenderHistoryChart(context.Background(), env.playerID, env.board.ID)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
