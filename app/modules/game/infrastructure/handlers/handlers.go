package gamehandlers

import (
	"context"
	"log/slog"

	gameservice "github.com/Black-And-White-Club/scorekeeper/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	gameevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/game"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"go.opentelemetry.io/otel/trace"
)

// GameHandlers implements the Handlers interface.
type GameHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGameHandlers creates a new GameHandlers instance.
func NewGameHandlers(
	service gameservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &GameHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleGameCreateRequested creates a game and replies with the created or failed event.
func (h *GameHandlers) HandleGameCreateRequested(ctx context.Context, payload *gameevents.GameCreateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "GameHandlers.HandleGameCreateRequested")
	defer span.End()

	caller := handlerwrapper.Caller(ctx, payload.Caller)

	h.logger.InfoContext(ctx, "Game create requested",
		slog.String("caller", string(caller)),
		slog.String("title", payload.Title),
	)

	meta := gamedomain.Meta{
		Title:       payload.Title,
		Description: payload.Description,
		Genre:       payload.Genre,
		GameType:    payload.GameType,
	}

	game, err := h.service.CreateGame(ctx, caller, meta, payload.Authorities)
	if err != nil {
		if scoreerrors.IsDomain(err) {
			h.logger.WarnContext(ctx, "Game creation rejected",
				slog.String("caller", string(caller)),
				slog.String("error", err.Error()),
			)
			return []handlerwrapper.Result{{
				Topic: gameevents.GameCreateFailedV1,
				Payload: &gameevents.GameCreateFailedPayloadV1{
					Caller: caller,
					Title:  payload.Title,
					Reason: err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: gameevents.GameCreatedV1,
		Payload: &gameevents.GameCreatedPayloadV1{
			GameID:      game.ID,
			Title:       game.Meta.Title,
			Authorities: game.Authorities.Users,
		},
	}}, nil
}
