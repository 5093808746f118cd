package scorehandlers

import (
	"context"
	"net/http"

	scoreevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/score"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for score event and HTTP handlers.
type Handlers interface {
	HandleLedgerRegisterRequested(ctx context.Context, payload *scoreevents.LedgerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleScoreSubmitRequested(ctx context.Context, payload *scoreevents.ScoreSubmitRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetLedger(w http.ResponseWriter, r *http.Request)
	HandleHTTPListLedgers(w http.ResponseWriter, r *http.Request)
	HandleHTTPHistoryChart(w http.ResponseWriter, r *http.Request)
	HandleHTTPImportScores(w http.ResponseWriter, r *http.Request)
}
