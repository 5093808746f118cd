package gamehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type updateRequest struct {
	Meta        *gamedomain.Meta      `json:"meta"`
	Authorities *[]sharedtypes.UserID `json:"authorities"`
}

type authorityRequest struct {
	Authority sharedtypes.UserID `json:"authority"`
}

func (h *GameHandlers) HandleHTTPGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	game, err := h.service.GetGame(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func (h *GameHandlers) HandleHTTPUpdateGame(w http.ResponseWriter, r *http.Request) {
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

	game, err := h.service.UpdateGame(r.Context(), caller, id, req.Meta, req.Authorities)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Update game failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func (h *GameHandlers) HandleHTTPAddAuthority(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req authorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return
	}
	if req.Authority == "" {
		httpapi.WriteError(w, fmt.Errorf("%w: authority is required", scoreerrors.ErrInvalidArgument))
		return
	}

	game, err := h.service.AddAuthority(r.Context(), caller, id, req.Authority)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Add authority failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
