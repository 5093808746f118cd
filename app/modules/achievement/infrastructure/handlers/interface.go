package achievementhandlers

import (
	"context"
	"net/http"

	achievementevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/achievement"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for achievement event and HTTP handlers.
type Handlers interface {
	HandleAchievementUnlockRequested(ctx context.Context, payload *achievementevents.AchievementUnlockRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRewardClaimRequested(ctx context.Context, payload *achievementevents.RewardClaimRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRankingUpdated(ctx context.Context, payload *leaderboardevents.LeaderboardRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetAchievement(w http.ResponseWriter, r *http.Request)
	HandleHTTPListAchievements(w http.ResponseWriter, r *http.Request)
	HandleHTTPListPlayerAchievements(w http.ResponseWriter, r *http.Request)
	HandleHTTPAddAchievement(w http.ResponseWriter, r *http.Request)
	HandleHTTPUpdateAchievement(w http.ResponseWriter, r *http.Request)
	HandleHTTPAddReward(w http.ResponseWriter, r *http.Request)
	HandleHTTPUnlockAchievement(w http.ResponseWriter, r *http.Request)
	HandleHTTPClaimReward(w http.ResponseWriter, r *http.Request)
}
