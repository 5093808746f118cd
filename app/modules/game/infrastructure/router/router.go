package gamerouter

import (
	"context"
	"log/slog"

	gamehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/handlers"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/game"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// GameRouter handles Watermill handler registration for game events.
type GameRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// NewGameRouter creates a new GameRouter.
func NewGameRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *GameRouter {
	return &GameRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		helper:     helper,
		tracer:     tracer,
		metrics:    metrics,
	}
}

// Configure sets up the router with handlers.
func (r *GameRouter) Configure(_ context.Context, handlers gamehandlers.Handlers) error {
	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	helper     utils.Helpers
	metrics    observability.OperationMetrics
}

func (r *GameRouter) registerHandlers(handlers gamehandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, gameevents.GameCreateRequestedV1, handlers.HandleGameCreateRequested)

	r.logger.Info("Game module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "game." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.helper,
			deps.metrics,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *GameRouter) Close() error {
	return r.router.Close()
}
