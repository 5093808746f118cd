package scenarios_integration_tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/app"
	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	"github.com/Black-And-White-Club/scorekeeper/integration_tests/testutils"
	internaltestutils "github.com/Black-And-White-Club/scorekeeper/internal/testutils"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

// ScenarioDeps is a running service wired to the shared containers.
type ScenarioDeps struct {
	*testutils.TestEnvironment
	App     *app.App
	Gen     *internaltestutils.DataGenerator
	Helpers utils.Helpers
	Ctx     context.Context
}

// SetupScenario cleans the shared containers and starts a fresh service
// against them. The service stops when the test ends.
func SetupScenario(t *testing.T) ScenarioDeps {
	t.Helper()
	if testEnv == nil {
		t.Skip("integration environment not started")
	}
	require.NoError(t, testEnv.DeepCleanup())

	cfg := *testEnv.Config
	ctx, cancel := context.WithCancel(testEnv.Ctx)

	a, err := app.NewApp(ctx, &cfg, observability.NewNoop())
	if err != nil {
		cancel()
		t.Fatalf("Failed to build app: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-a.Router.Running():
	case <-time.After(10 * time.Second):
		cancel()
		t.Fatal("Watermill router did not start")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Logf("App stopped with error: %v", err)
			}
		case <-time.After(15 * time.Second):
			t.Log("App shutdown timed out")
		}
	})

	gen := internaltestutils.NewDataGenerator()
	t.Logf("data generator seed: %d", gen.Seed())

	return ScenarioDeps{
		TestEnvironment: testEnv,
		App:             a,
		Gen:             gen,
		Helpers:         utils.NewHelper(),
		Ctx:             ctx,
	}
}

func (d ScenarioDeps) createGame(t *testing.T, owner sharedtypes.UserID) *gamedomain.Game {
	t.Helper()
	game, err := d.App.Modules.Game.GameService.CreateGame(d.Ctx, owner, gamedomain.Meta{
		Title:       d.Gen.Title(gamedomain.MaxTitleLength),
		Description: d.Gen.Description(gamedomain.MaxDescriptionLength),
		Genre:       "arcade",
		GameType:    "web",
	}, nil)
	require.NoError(t, err)
	return game
}

func (d ScenarioDeps) registerPlayer(t *testing.T, owner sharedtypes.UserID) *playerdomain.Player {
	t.Helper()
	player, err := d.App.Modules.Player.PlayerService.RegisterPlayer(d.Ctx, owner, d.Gen.Username(playerdomain.MaxUsernameLength))
	require.NoError(t, err)
	return player
}

func (d ScenarioDeps) createLeaderboard(t *testing.T, owner sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) *leaderboarddomain.Leaderboard {
	t.Helper()
	if input.Description == "" {
		input.Description = d.Gen.Description(leaderboarddomain.MaxDescriptionLength)
	}
	lb, err := d.App.Modules.Leaderboard.LeaderboardService.CreateLeaderboard(d.Ctx, owner, gameID, input)
	require.NoError(t, err)
	return lb
}

func (d ScenarioDeps) openLedger(t *testing.T, owner sharedtypes.UserID, playerID, leaderboardID uuid.UUID) {
	t.Helper()
	_, err := d.App.Modules.Score.ScoreService.RegisterPlayerForLeaderboard(d.Ctx, owner, playerID, leaderboardID)
	require.NoError(t, err)
}

func (d ScenarioDeps) submit(t *testing.T, authority sharedtypes.UserID, playerID, leaderboardID uuid.UUID, score uint64, ts int64) {
	t.Helper()
	_, err := d.App.Modules.Score.ScoreService.SubmitScore(d.Ctx, authority, playerID, leaderboardID, sharedtypes.ScoreRecord{Score: score, Timestamp: ts})
	require.NoError(t, err)
}

func (d ScenarioDeps) rankedScores(t *testing.T, leaderboardID uuid.UUID) []uint64 {
	t.Helper()
	entries, err := d.App.Modules.Leaderboard.LeaderboardService.GetRanking(d.Ctx, leaderboardID)
	require.NoError(t, err)
	scores := make([]uint64, len(entries))
	for i, e := range entries {
		scores[i] = e.Record.Score
	}
	return scores
}

// publish sends payload on topic through the service's own bus.
func (d ScenarioDeps) publish(t *testing.T, topic string, payload any) {
	t.Helper()
	msg, err := d.Helpers.CreateNewMessage(payload, topic)
	require.NoError(t, err)
	require.NoError(t, d.App.EventBus.Publish(topic, msg))
}

// subscribe observes subject on the raw NATS connection.
func (d ScenarioDeps) subscribe(t *testing.T, subject string) *nats.Subscription {
	t.Helper()
	sub, err := d.NatsConn.SubscribeSync(subject)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	require.NoError(t, d.NatsConn.Flush())
	return sub
}

// nextPayload waits for the next message on sub and decodes it into out.
func nextPayload(t *testing.T, sub *nats.Subscription, timeout time.Duration, out any) {
	t.Helper()
	msg, err := sub.NextMsg(timeout)
	require.NoError(t, err, "no message on %s", sub.Subject)
	require.NoError(t, json.Unmarshal(msg.Data, out))
}
