package mergehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type initiateRequest struct {
	Initiator  uuid.UUID   `json:"initiator"`
	Candidates []uuid.UUID `json:"candidates"`
}

type approveRequest struct {
	Participant uuid.UUID `json:"participant"`
}

func (h *MergeHandlers) HandleHTTPGetMerge(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.GetMerge(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, view)
}

func (h *MergeHandlers) HandleHTTPListMerges(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}
	views, err := h.service.ListMerges(r.Context(), playerID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, views)
}

func (h *MergeHandlers) HandleHTTPInitiateMerge(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}

	view, err := h.service.InitiateMerge(r.Context(), caller, req.Initiator, req.Candidates)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Initiate merge failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, view)
}

func (h *MergeHandlers) HandleHTTPApproveMerge(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}

	outcome, err := h.service.ApproveMerge(r.Context(), caller, id, req.Participant)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Approve merge failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, outcome.Merge)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
