package mergerouter

import (
	"context"
	"log/slog"

	mergehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/handlers"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	mergeevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/merge"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// MergeRouter handles Watermill handler registration for merge events.
type MergeRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// NewMergeRouter creates a new MergeRouter.
func NewMergeRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *MergeRouter {
	return &MergeRouter{
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
func (r *MergeRouter) Configure(_ context.Context, handlers mergehandlers.Handlers) error {
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

func (r *MergeRouter) registerHandlers(handlers mergehandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, mergeevents.MergeInitiateRequestedV1, handlers.HandleMergeInitiateRequested)
	registerHandler(deps, mergeevents.MergeApproveRequestedV1, handlers.HandleMergeApproveRequested)

	r.logger.Info("Merge module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "merge." + topic

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
func (r *MergeRouter) Close() error {
	return r.router.Close()
}
