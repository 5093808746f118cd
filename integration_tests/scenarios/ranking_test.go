package scenarios_integration_tests

import (
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanking_AscendingKeepsLowestScores(t *testing.T) {
	deps := SetupScenario(t)
	authority := deps.Gen.UserID()
	owner := deps.Gen.UserID()

	game := deps.createGame(t, authority)
	lb := deps.createLeaderboard(t, authority, game.ID, leaderboarddomain.Input{
		Ordering:      sharedtypes.Ascending,
		AllowMultiple: true,
		RetainCount:   3,
	})
	player := deps.registerPlayer(t, owner)
	deps.openLedger(t, owner, player.ID, lb.ID)

	for i, score := range []uint64{50, 10, 30, 5} {
		deps.submit(t, authority, player.ID, lb.ID, score, int64(i+1))
	}

	if diff := cmp.Diff([]uint64{5, 10, 30}, deps.rankedScores(t, lb.ID)); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestRanking_OneSlotPerPlayer(t *testing.T) {
	deps := SetupScenario(t)
	authority := deps.Gen.UserID()

	game := deps.createGame(t, authority)
	lb := deps.createLeaderboard(t, authority, game.ID, leaderboarddomain.Input{
		Ordering:    sharedtypes.Descending,
		RetainCount: 2,
	})

	p1Owner, p2Owner := deps.Gen.UserID(), deps.Gen.UserID()
	p1 := deps.registerPlayer(t, p1Owner)
	p2 := deps.registerPlayer(t, p2Owner)
	deps.openLedger(t, p1Owner, p1.ID, lb.ID)
	deps.openLedger(t, p2Owner, p2.ID, lb.ID)

	deps.submit(t, authority, p1.ID, lb.ID, 10, 1)
	deps.submit(t, authority, p2.ID, lb.ID, 20, 2)
	deps.submit(t, authority, p1.ID, lb.ID, 15, 3)

	entries, err := deps.App.Modules.Leaderboard.LeaderboardService.GetRanking(deps.Ctx, lb.ID)
	require.NoError(t, err)

	type slot struct {
		Player string
		Score  uint64
	}
	got := make([]slot, len(entries))
	for i, e := range entries {
		got[i] = slot{Player: e.PlayerID.String(), Score: e.Record.Score}
	}
	want := []slot{
		{Player: p2.ID.String(), Score: 20},
		{Player: p1.ID.String(), Score: 15},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_OutOfBoundsLeavesLedgerUnchanged(t *testing.T) {
	deps := SetupScenario(t)
	authority := deps.Gen.UserID()
	owner := deps.Gen.UserID()

	game := deps.createGame(t, authority)
	lb := deps.createLeaderboard(t, authority, game.ID, leaderboarddomain.Input{
		Bounds:      &sharedtypes.Bounds{Min: 100, Max: 200},
		Ordering:    sharedtypes.Descending,
		RetainCount: 5,
	})
	player := deps.registerPlayer(t, owner)
	deps.openLedger(t, owner, player.ID, lb.ID)
	deps.submit(t, authority, player.ID, lb.ID, 150, 1)

	scores := deps.App.Modules.Score.ScoreService
	before, err := scores.GetLedgerSummary(deps.Ctx, player.ID, lb.ID)
	require.NoError(t, err)

	_, err = scores.SubmitScore(deps.Ctx, authority, player.ID, lb.ID, sharedtypes.ScoreRecord{Score: 50, Timestamp: 2})
	require.ErrorIs(t, err, scoreerrors.ErrScoreOutOfBounds)

	after, err := scores.GetLedgerSummary(deps.Ctx, player.ID, lb.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Length, after.Length)
	assert.Equal(t, before.Capacity, after.Capacity)
	if diff := cmp.Diff([]uint64{150}, deps.rankedScores(t, lb.ID)); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_GrowsByOneWindow(t *testing.T) {
	deps := SetupScenario(t)
	authority := deps.Gen.UserID()
	owner := deps.Gen.UserID()

	game := deps.createGame(t, authority)
	bounds := sharedtypes.Bounds{Min: 0, Max: 10_000}
	lb := deps.createLeaderboard(t, authority, game.ID, leaderboarddomain.Input{
		Bounds:        &bounds,
		Ordering:      sharedtypes.Descending,
		AllowMultiple: true,
		RetainCount:   3,
	})
	player := deps.registerPlayer(t, owner)
	deps.openLedger(t, owner, player.ID, lb.ID)

	records := deps.Gen.Scores(11, bounds)
	for _, rec := range records[:10] {
		deps.submit(t, authority, player.ID, lb.ID, rec.Score, rec.Timestamp)
	}

	outcome, err := deps.App.Modules.Score.ScoreService.SubmitScore(deps.Ctx, authority, player.ID, lb.ID, records[10])
	require.NoError(t, err)
	assert.True(t, outcome.Grew)
	assert.Equal(t, 10, outcome.PreviousCapacity)
	assert.Equal(t, 20, outcome.Capacity)
	assert.Equal(t, 11, outcome.Length)

	ledger, err := deps.App.Modules.Score.ScoreService.GetLedger(deps.Ctx, player.ID, lb.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Records, 11)
	if diff := cmp.Diff(records, ledger.Records); diff != "" {
		t.Errorf("ledger entries mismatch (-want +got):\n%s", diff)
	}
}
