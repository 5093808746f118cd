package livehandlers

import (
	"context"
	"net/http"

	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for the live feed handlers.
type Handlers interface {
	HandleRankingUpdated(ctx context.Context, payload *leaderboardevents.LeaderboardRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error)
	HandleWebSocket(w http.ResponseWriter, r *http.Request)
}
