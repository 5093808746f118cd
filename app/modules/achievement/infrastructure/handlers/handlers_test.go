package achievementhandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	achievementservice "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/application"
	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	achievementevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/achievement"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeAchievementService) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAchievementHandlers(svc, logger, noop.NewTracerProvider().Tracer("test"))
}

func topics(results []handlerwrapper.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Topic)
	}
	return out
}

func TestHandleAchievementUnlockRequested(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*FakeAchievementService)
		wantTopics []string
		wantErr    bool
	}{
		{
			name:       "unlocked",
			setup:      func(*FakeAchievementService) {},
			wantTopics: []string{achievementevents.AchievementUnlockedV1},
		},
		{
			name: "already unlocked publishes nothing",
			setup: func(f *FakeAchievementService) {
				f.UnlockAchievementFunc = func(_ context.Context, _ sharedtypes.UserID, playerID, achievementID uuid.UUID) (*achievementservice.UnlockOutcome, error) {
					return unlockOutcome(playerID, achievementID, false), nil
				}
			},
			wantTopics: []string{},
		},
		{
			name: "unranked player",
			setup: func(f *FakeAchievementService) {
				f.UnlockAchievementFunc = func(context.Context, sharedtypes.UserID, uuid.UUID, uuid.UUID) (*achievementservice.UnlockOutcome, error) {
					return nil, achievementdomain.ErrNotRanked
				}
			},
			wantTopics: []string{achievementevents.AchievementUnlockFailedV1},
		},
		{
			name: "infrastructure error is returned",
			setup: func(f *FakeAchievementService) {
				f.UnlockAchievementFunc = func(context.Context, sharedtypes.UserID, uuid.UUID, uuid.UUID) (*achievementservice.UnlockOutcome, error) {
					return nil, errors.New("db down")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeAchievementService()
			tt.setup(svc)
			h := newTestHandlers(svc)

			results, err := h.HandleAchievementUnlockRequested(context.Background(), &achievementevents.AchievementUnlockRequestedPayloadV1{
				Caller:        "game-admin",
				PlayerID:      uuid.New(),
				AchievementID: uuid.New(),
			})
			assert.Equal(t, []string{"UnlockAchievement"}, svc.Trace())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopics, topics(results))
		})
	}
}

func TestHandleRewardClaimRequested(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantTopics []string
	}{
		{
			name:       "claimed",
			wantTopics: []string{achievementevents.RewardClaimedV1},
		},
		{
			name:       "claimed twice",
			err:        scoreerrors.ErrDuplicateClaim,
			wantTopics: []string{achievementevents.RewardClaimFailedV1},
		},
		{
			name:       "no spots left",
			err:        scoreerrors.ErrNoRewardAvailable,
			wantTopics: []string{achievementevents.RewardClaimFailedV1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeAchievementService()
			if tt.err != nil {
				svc.ClaimRewardFunc = func(context.Context, sharedtypes.UserID, uuid.UUID, uuid.UUID) (*achievementservice.ClaimOutcome, error) {
					return nil, tt.err
				}
			}
			h := newTestHandlers(svc)

			results, err := h.HandleRewardClaimRequested(context.Background(), &achievementevents.RewardClaimRequestedPayloadV1{
				Caller:        "ranked-owner",
				PlayerID:      uuid.New(),
				AchievementID: uuid.New(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopics, topics(results))
		})
	}
}

func TestHandleRankingUpdated(t *testing.T) {
	lbID := uuid.New()
	playerID := uuid.New()

	t.Run("one event per new unlock", func(t *testing.T) {
		svc := NewFakeAchievementService()
		svc.UnlockRankedFunc = func(_ context.Context, gotLB, gotPlayer uuid.UUID) ([]*achievementservice.UnlockOutcome, error) {
			assert.Equal(t, lbID, gotLB)
			assert.Equal(t, playerID, gotPlayer)
			return []*achievementservice.UnlockOutcome{
				unlockOutcome(gotPlayer, uuid.New(), true),
				unlockOutcome(gotPlayer, uuid.New(), true),
			}, nil
		}
		h := newTestHandlers(svc)

		results, err := h.HandleRankingUpdated(context.Background(), &leaderboardevents.LeaderboardRankingUpdatedPayloadV1{
			LeaderboardID: lbID,
			PlayerID:      playerID,
			Rank:          1,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			payload, ok := r.Payload.(*achievementevents.AchievementUnlockedPayloadV1)
			require.True(t, ok)
			assert.True(t, payload.Automatic)
			assert.Equal(t, playerID, payload.PlayerID)
		}
	})

	t.Run("domain error is skipped", func(t *testing.T) {
		svc := NewFakeAchievementService()
		svc.UnlockRankedFunc = func(context.Context, uuid.UUID, uuid.UUID) ([]*achievementservice.UnlockOutcome, error) {
			return nil, scoreerrors.ErrNotFound
		}
		h := newTestHandlers(svc)

		results, err := h.HandleRankingUpdated(context.Background(), &leaderboardevents.LeaderboardRankingUpdatedPayloadV1{LeaderboardID: lbID, PlayerID: playerID})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func newTestMux(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/achievements/{id}", h.HandleHTTPGetAchievement)
	r.Get("/api/achievements/game/{gameID}", h.HandleHTTPListAchievements)
	r.Get("/api/achievements/player/{playerID}", h.HandleHTTPListPlayerAchievements)
	r.Post("/api/achievements/game/{gameID}", h.HandleHTTPAddAchievement)
	r.Put("/api/achievements/{id}", h.HandleHTTPUpdateAchievement)
	r.Post("/api/achievements/{id}/reward", h.HandleHTTPAddReward)
	r.Post("/api/achievements/{id}/unlock", h.HandleHTTPUnlockAchievement)
	r.Post("/api/achievements/{id}/claim", h.HandleHTTPClaimReward)
	return r
}

func TestHTTPHandlers(t *testing.T) {
	achievementID := uuid.New()
	gameID := uuid.New()
	playerBody := `{"player_id":"` + uuid.NewString() + `"}`

	tests := []struct {
		name       string
		method     string
		url        string
		body       string
		caller     sharedtypes.UserID
		setup      func(*FakeAchievementService)
		wantStatus int
		wantTrace  []string
	}{
		{
			name:       "get achievement",
			method:     http.MethodGet,
			url:        "/api/achievements/" + achievementID.String(),
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusOK,
			wantTrace:  []string{"GetAchievement"},
		},
		{
			name:   "unknown achievement",
			method: http.MethodGet,
			url:    "/api/achievements/" + achievementID.String(),
			setup: func(f *FakeAchievementService) {
				f.GetAchievementFunc = func(context.Context, uuid.UUID) (*achievementservice.AchievementView, error) {
					return nil, achievementdb.ErrNotFound
				}
			},
			wantStatus: http.StatusNotFound,
			wantTrace:  []string{"GetAchievement"},
		},
		{
			name:       "malformed id",
			method:     http.MethodGet,
			url:        "/api/achievements/not-a-uuid",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{},
		},
		{
			name:       "list for game",
			method:     http.MethodGet,
			url:        "/api/achievements/game/" + gameID.String(),
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusOK,
			wantTrace:  []string{"ListAchievements"},
		},
		{
			name:       "list for player",
			method:     http.MethodGet,
			url:        "/api/achievements/player/" + uuid.NewString(),
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusOK,
			wantTrace:  []string{"ListPlayerAchievements"},
		},
		{
			name:       "add achievement",
			method:     http.MethodPost,
			url:        "/api/achievements/game/" + gameID.String(),
			body:       `{"title":"First Blood","description":"Score once"}`,
			caller:     "game-admin",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusCreated,
			wantTrace:  []string{"AddAchievement"},
		},
		{
			name:       "add achievement without caller",
			method:     http.MethodPost,
			url:        "/api/achievements/game/" + gameID.String(),
			body:       `{}`,
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusUnauthorized,
			wantTrace:  []string{},
		},
		{
			name:   "add achievement by stranger",
			method: http.MethodPost,
			url:    "/api/achievements/game/" + gameID.String(),
			body:   `{"title":"First Blood"}`,
			caller: "stranger",
			setup: func(f *FakeAchievementService) {
				f.AddAchievementFunc = func(context.Context, sharedtypes.UserID, uuid.UUID, achievementdomain.Input) (*achievementdomain.Achievement, error) {
					return nil, scoreerrors.ErrNotAuthorized
				}
			},
			wantStatus: http.StatusForbidden,
			wantTrace:  []string{"AddAchievement"},
		},
		{
			name:       "update achievement",
			method:     http.MethodPut,
			url:        "/api/achievements/" + achievementID.String(),
			body:       `{"title":"Renamed"}`,
			caller:     "game-admin",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusOK,
			wantTrace:  []string{"UpdateAchievement"},
		},
		{
			name:       "add reward",
			method:     http.MethodPost,
			url:        "/api/achievements/" + achievementID.String() + "/reward",
			body:       `{"kind":"ft","amount":5,"available_spots":3}`,
			caller:     "game-admin",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusCreated,
			wantTrace:  []string{"AddReward"},
		},
		{
			name:       "add reward with malformed body",
			method:     http.MethodPost,
			url:        "/api/achievements/" + achievementID.String() + "/reward",
			body:       `{"kind":`,
			caller:     "game-admin",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{},
		},
		{
			name:       "unlock",
			method:     http.MethodPost,
			url:        "/api/achievements/" + achievementID.String() + "/unlock",
			body:       playerBody,
			caller:     "game-admin",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusOK,
			wantTrace:  []string{"UnlockAchievement"},
		},
		{
			name:       "claim",
			method:     http.MethodPost,
			url:        "/api/achievements/" + achievementID.String() + "/claim",
			body:       playerBody,
			caller:     "ranked-owner",
			setup:      func(*FakeAchievementService) {},
			wantStatus: http.StatusAccepted,
			wantTrace:  []string{"ClaimReward"},
		},
		{
			name:   "claim twice",
			method: http.MethodPost,
			url:    "/api/achievements/" + achievementID.String() + "/claim",
			body:   playerBody,
			caller: "ranked-owner",
			setup: func(f *FakeAchievementService) {
				f.ClaimRewardFunc = func(context.Context, sharedtypes.UserID, uuid.UUID, uuid.UUID) (*achievementservice.ClaimOutcome, error) {
					return nil, scoreerrors.ErrDuplicateClaim
				}
			},
			wantStatus: http.StatusConflict,
			wantTrace:  []string{"ClaimReward"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeAchievementService()
			tt.setup(svc)
			mux := newTestMux(newTestHandlers(svc))

			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			if tt.caller != "" {
				req = req.WithContext(httpapi.WithCaller(req.Context(), tt.caller))
			}
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantTrace, svc.Trace())
		})
	}
}
