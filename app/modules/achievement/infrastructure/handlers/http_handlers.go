package achievementhandlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	achievementdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type playerRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

type claimResponse struct {
	ClaimID        uuid.UUID `json:"claim_id"`
	AchievementID  uuid.UUID `json:"achievement_id"`
	PlayerID       uuid.UUID `json:"player_id"`
	Kind           string    `json:"kind"`
	Amount         uint64    `json:"amount"`
	AvailableSpots uint64    `json:"available_spots"`
}

type unlockResponse struct {
	*achievementdomain.PlayerAchievement
	Unlocked bool `json:"unlocked"`
}

func (h *AchievementHandlers) HandleHTTPGetAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.service.GetAchievement(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, view)
}

func (h *AchievementHandlers) HandleHTTPListAchievements(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseID(w, r, "gameID")
	if !ok {
		return
	}
	views, err := h.service.ListAchievements(r.Context(), gameID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, views)
}

func (h *AchievementHandlers) HandleHTTPListPlayerAchievements(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseID(w, r, "playerID")
	if !ok {
		return
	}
	unlocks, err := h.service.ListPlayerAchievements(r.Context(), playerID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, unlocks)
}

func (h *AchievementHandlers) HandleHTTPAddAchievement(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseID(w, r, "gameID")
	if !ok {
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var input achievementdomain.Input
	if !decode(w, r, &input) {
		return
	}

	a, err := h.service.AddAchievement(r.Context(), caller, gameID, input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Add achievement failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, a)
}

func (h *AchievementHandlers) HandleHTTPUpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var input achievementdomain.Input
	if !decode(w, r, &input) {
		return
	}

	a, err := h.service.UpdateAchievement(r.Context(), caller, id, input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Update achievement failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, a)
}

func (h *AchievementHandlers) HandleHTTPAddReward(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var input achievementdomain.RewardInput
	if !decode(w, r, &input) {
		return
	}

	reward, err := h.service.AddReward(r.Context(), caller, id, input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Add reward failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, reward)
}

func (h *AchievementHandlers) HandleHTTPUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}

	outcome, err := h.service.UnlockAchievement(r.Context(), caller, req.PlayerID, id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Unlock achievement failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, unlockResponse{PlayerAchievement: outcome.Unlock, Unlocked: outcome.Unlocked})
}

func (h *AchievementHandlers) HandleHTTPClaimReward(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req playerRequest
	if !decode(w, r, &req) {
		return
	}

	outcome, err := h.service.ClaimReward(r.Context(), caller, req.PlayerID, id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Claim reward failed", attr.Error(err))
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusAccepted, claimResponse{
		ClaimID:        outcome.ClaimID,
		AchievementID:  id,
		PlayerID:       req.PlayerID,
		Kind:           string(outcome.Reward.Kind),
		Amount:         outcome.Reward.Amount,
		AvailableSpots: outcome.Reward.AvailableSpots,
	})
}

func requireCaller(w http.ResponseWriter, r *http.Request) (sharedtypes.UserID, bool) {
	caller, ok := httpapi.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return caller, ok
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpapi.WriteError(w, fmt.Errorf("%w: %v", scoreerrors.ErrInvalidArgument, err))
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
