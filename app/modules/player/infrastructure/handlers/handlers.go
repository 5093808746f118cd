package playerhandlers

import (
	"context"
	"log/slog"

	playerservice "github.com/Black-And-White-Club/scorekeeper/app/modules/player/application"
	playerevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/player"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"go.opentelemetry.io/otel/trace"
)

// PlayerHandlers implements the Handlers interface.
type PlayerHandlers struct {
	service playerservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPlayerHandlers creates a new PlayerHandlers instance.
func NewPlayerHandlers(service playerservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &PlayerHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandlePlayerRegisterRequested registers a player for the requesting user.
func (h *PlayerHandlers) HandlePlayerRegisterRequested(ctx context.Context, payload *playerevents.PlayerRegisterRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "PlayerHandlers.HandlePlayerRegisterRequested")
	defer span.End()

	user := handlerwrapper.Caller(ctx, payload.User)
	player, err := h.service.RegisterPlayer(ctx, user, payload.Username)
	if err != nil {
		if !scoreerrors.IsDomain(err) {
			return nil, err
		}
		h.logger.WarnContext(ctx, "Player registration rejected",
			slog.String("user", string(user)),
			slog.String("error", err.Error()),
		)
		return []handlerwrapper.Result{{
			Topic: playerevents.PlayerRegisterFailedV1,
			Payload: &playerevents.PlayerRegisterFailedPayloadV1{
				User:     user,
				Username: payload.Username,
				Reason:   err.Error(),
			},
		}}, nil
	}

	return []handlerwrapper.Result{{
		Topic: playerevents.PlayerRegisteredV1,
		Payload: &playerevents.PlayerRegisteredPayloadV1{
			PlayerID: player.ID,
			User:     player.Owner,
			Username: player.Username,
		},
	}}, nil
}
