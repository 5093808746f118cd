package playerhandlers

import (
	"context"
	"net/http"

	playerevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/player"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for player event and HTTP handlers.
type Handlers interface {
	HandlePlayerRegisterRequested(ctx context.Context, payload *playerevents.PlayerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetPlayer(w http.ResponseWriter, r *http.Request)
	HandleHTTPListPlayers(w http.ResponseWriter, r *http.Request)
	HandleHTTPUpdatePlayer(w http.ResponseWriter, r *http.Request)
	HandleHTTPFundPlayer(w http.ResponseWriter, r *http.Request)
}
