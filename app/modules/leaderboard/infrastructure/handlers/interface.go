package leaderboardhandlers

import (
	"context"
	"net/http"

	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for leaderboard event and HTTP handlers.
type Handlers interface {
	HandleLeaderboardCreateRequested(ctx context.Context, payload *leaderboardevents.LeaderboardCreateRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetRanking(w http.ResponseWriter, r *http.Request)
	HandleHTTPRankingChart(w http.ResponseWriter, r *http.Request)
	HandleHTTPIsPlayerRanked(w http.ResponseWriter, r *http.Request)
	HandleHTTPUpdateLeaderboard(w http.ResponseWriter, r *http.Request)
}
