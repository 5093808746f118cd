package leaderboardhandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type rankedResponse struct {
	LeaderboardID uuid.UUID `json:"leaderboard_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Ranked        bool      `json:"ranked"`
}

// updateRequest mirrors leaderboarddomain.Update; omitted fields are unchanged.
type updateRequest struct {
	Description   *string             `json:"description"`
	Bounds        *sharedtypes.Bounds `json:"bounds"`
	Ordering      *string             `json:"ordering"`
	AllowMultiple *bool               `json:"allow_multiple"`
}

func (h *LeaderboardHandlers) HandleHTTPGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	lb, err := h.service.GetLeaderboard(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Get leaderboard failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, lb)
}

func (h *LeaderboardHandlers) HandleHTTPGetRanking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.service.GetRanking(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Get ranking failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, entries)
}

func (h *LeaderboardHandlers) HandleHTTPRankingChart(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	png, err := h.service.RenderRankingChart(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Ranking chart failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *LeaderboardHandlers) HandleHTTPIsPlayerRanked(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}

	ranked, err := h.service.IsPlayerRanked(r.Context(), id, playerID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, rankedResponse{LeaderboardID: id, PlayerID: playerID, Ranked: ranked})
}

func (h *LeaderboardHandlers) HandleHTTPUpdateLeaderboard(w http.ResponseWriter, r *http.Request) {
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

	update := leaderboarddomain.Update{
		Description:   req.Description,
		Bounds:        req.Bounds,
		AllowMultiple: req.AllowMultiple,
	}
	if req.Ordering != nil {
		ordering := sharedtypes.Ordering(*req.Ordering)
		update.Ordering = &ordering
	}

	lb, err := h.service.UpdateLeaderboard(r.Context(), caller, id, update)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Update leaderboard failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, lb)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
