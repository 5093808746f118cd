package leaderboardhandlers

import (
	"context"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleLeaderboardCreateRequested creates a leaderboard for a game.
func (h *LeaderboardHandlers) HandleLeaderboardCreateRequested(ctx context.Context, payload *leaderboardevents.LeaderboardCreateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleLeaderboardCreateRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	input := leaderboarddomain.Input{
		Description:   payload.Description,
		Bounds:        payload.Bounds,
		Ordering:      sharedtypes.Ordering(payload.Ordering),
		AllowMultiple: payload.AllowMultiple,
		RetainCount:   payload.RetainCount,
		Decimals:      payload.Decimals,
	}

	lb, err := h.service.CreateLeaderboard(ctx, caller, payload.GameID, input)
	if err != nil {
		if scoreerrors.IsDomain(err) {
			h.logger.WarnContext(ctx, "Leaderboard creation rejected",
				slog.String("caller", string(caller)),
				slog.String("game_id", payload.GameID.String()),
				slog.String("error", err.Error()),
			)
			return []handlerwrapper.Result{{
				Topic: leaderboardevents.LeaderboardCreateFailedV1,
				Payload: &leaderboardevents.LeaderboardCreateFailedPayloadV1{
					Caller: caller,
					GameID: payload.GameID,
					Reason: err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: leaderboardevents.LeaderboardCreatedV1,
		Payload: &leaderboardevents.LeaderboardCreatedPayloadV1{
			LeaderboardID: lb.ID,
			GameID:        lb.GameID,
			RetainCount:   lb.RetainCount,
		},
	}}, nil
}
