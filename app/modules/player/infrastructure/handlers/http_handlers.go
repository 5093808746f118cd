package playerhandlers

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

type updateRequest struct {
	Username string `json:"username"`
}

type fundRequest struct {
	Amount int64 `json:"amount"`
}

type fundResponse struct {
	PlayerID uuid.UUID `json:"player_id"`
	Balance  int64     `json:"balance"`
}

func (h *PlayerHandlers) HandleHTTPGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	player, err := h.service.GetPlayer(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, player)
}

// HandleHTTPListPlayers lists the players owned by the caller.
func (h *PlayerHandlers) HandleHTTPListPlayers(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	players, err := h.service.ListPlayers(r.Context(), caller)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, players)
}

func (h *PlayerHandlers) HandleHTTPUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}

	player, err := h.service.UpdatePlayer(r.Context(), caller, id, req.Username)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Update player failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, player)
}

// HandleHTTPFundPlayer deposits into the storage account of the player's
// owner. Any authenticated caller may fund any player.
func (h *PlayerHandlers) HandleHTTPFundPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}

	balance, err := h.service.FundPlayer(r.Context(), id, req.Amount)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Fund player failed",
			attr.String("caller", string(caller)),
			attr.Error(err),
		)
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, fundResponse{PlayerID: id, Balance: balance})
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
