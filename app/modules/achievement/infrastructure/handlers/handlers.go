package achievementhandlers

import (
	"context"
	"log/slog"

	achievementservice "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/application"
	achievementevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/achievement"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"go.opentelemetry.io/otel/trace"
)

// AchievementHandlers implements the Handlers interface.
type AchievementHandlers struct {
	service achievementservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAchievementHandlers creates a new AchievementHandlers instance.
func NewAchievementHandlers(service achievementservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AchievementHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleAchievementUnlockRequested unlocks an achievement on behalf of a game authority.
func (h *AchievementHandlers) HandleAchievementUnlockRequested(ctx context.Context, payload *achievementevents.AchievementUnlockRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AchievementHandlers.HandleAchievementUnlockRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)
	outcome, err := h.service.UnlockAchievement(ctx, caller, payload.PlayerID, payload.AchievementID)
	if err != nil {
		if !scoreerrors.IsDomain(err) {
			return nil, err
		}
		h.logger.WarnContext(ctx, "Unlock rejected",
			attr.String("caller", string(caller)),
			attr.UUID("achievement_id", payload.AchievementID),
			attr.Error(err),
		)
		return []handlerwrapper.Result{{
			Topic: achievementevents.AchievementUnlockFailedV1,
			Payload: &achievementevents.AchievementUnlockFailedPayloadV1{
				Caller:        caller,
				PlayerID:      payload.PlayerID,
				AchievementID: payload.AchievementID,
				Reason:        err.Error(),
			},
		}}, nil
	}

	if !outcome.Unlocked {
		return nil, nil
	}
	return []handlerwrapper.Result{unlockedResult(outcome, false)}, nil
}

// HandleRewardClaimRequested claims the reward of an unlocked achievement.
func (h *AchievementHandlers) HandleRewardClaimRequested(ctx context.Context, payload *achievementevents.RewardClaimRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AchievementHandlers.HandleRewardClaimRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)
	outcome, err := h.service.ClaimReward(ctx, caller, payload.PlayerID, payload.AchievementID)
	if err != nil {
		if !scoreerrors.IsDomain(err) {
			return nil, err
		}
		h.logger.WarnContext(ctx, "Claim rejected",
			attr.String("caller", string(caller)),
			attr.UUID("achievement_id", payload.AchievementID),
			attr.Error(err),
		)
		return []handlerwrapper.Result{{
			Topic: achievementevents.RewardClaimFailedV1,
			Payload: &achievementevents.RewardClaimFailedPayloadV1{
				Caller:        caller,
				PlayerID:      payload.PlayerID,
				AchievementID: payload.AchievementID,
				Reason:        err.Error(),
			},
		}}, nil
	}

	return []handlerwrapper.Result{{
		Topic: achievementevents.RewardClaimedV1,
		Payload: &achievementevents.RewardClaimedPayloadV1{
			ClaimID:        outcome.ClaimID,
			AchievementID:  payload.AchievementID,
			PlayerID:       payload.PlayerID,
			AvailableSpots: outcome.Reward.AvailableSpots,
		},
	}}, nil
}

// HandleRankingUpdated unlocks gated achievements for a player that entered
// a ranking.
func (h *AchievementHandlers) HandleRankingUpdated(ctx context.Context, payload *leaderboardevents.LeaderboardRankingUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "AchievementHandlers.HandleRankingUpdated")
	defer span.End()

	unlocked, err := h.service.UnlockRanked(ctx, payload.LeaderboardID, payload.PlayerID)
	if err != nil {
		if scoreerrors.IsDomain(err) {
			h.logger.WarnContext(ctx, "Skipping automatic unlock",
				attr.UUID("leaderboard_id", payload.LeaderboardID),
				attr.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}

	out := make([]handlerwrapper.Result, 0, len(unlocked))
	for _, outcome := range unlocked {
		out = append(out, unlockedResult(outcome, true))
	}
	return out, nil
}

func unlockedResult(outcome *achievementservice.UnlockOutcome, automatic bool) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: achievementevents.AchievementUnlockedV1,
		Payload: &achievementevents.AchievementUnlockedPayloadV1{
			AchievementID: outcome.Achievement.ID,
			PlayerID:      outcome.Unlock.PlayerID,
			GameID:        outcome.Achievement.GameID,
			Automatic:     automatic,
		},
	}
}
