package mergehandlers

import (
	"context"
	"net/http"

	mergeevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/merge"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
)

// Handlers defines the interface for merge event and HTTP handlers.
type Handlers interface {
	HandleMergeInitiateRequested(ctx context.Context, payload *mergeevents.MergeInitiateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMergeApproveRequested(ctx context.Context, payload *mergeevents.MergeApproveRequestedPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPGetMerge(w http.ResponseWriter, r *http.Request)
	HandleHTTPListMerges(w http.ResponseWriter, r *http.Request)
	HandleHTTPInitiateMerge(w http.ResponseWriter, r *http.Request)
	HandleHTTPApproveMerge(w http.ResponseWriter, r *http.Request)
}
