package gamehandlers

import (
	"context"
	"net/http"

	gameevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/game"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for game event and HTTP handlers.
type Handlers interface {
	HandleGameCreateRequested(ctx context.Context, payload *gameevents.GameCreateRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetGame(w http.ResponseWriter, r *http.Request)
	HandleHTTPUpdateGame(w http.ResponseWriter, r *http.Request)
	HandleHTTPAddAuthority(w http.ResponseWriter, r *http.Request)
}
