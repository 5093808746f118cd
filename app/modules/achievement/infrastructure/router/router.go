package achievementrouter

import (
	"context"
	"log/slog"

	achievementhandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/handlers"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	achievementevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/achievement"
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// AchievementRouter handles Watermill handler registration for achievement events.
type AchievementRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	helper     utils.Helpers
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// NewAchievementRouter creates a new AchievementRouter.
func NewAchievementRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	helper utils.Helpers,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *AchievementRouter {
	return &AchievementRouter{
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
func (r *AchievementRouter) Configure(_ context.Context, handlers achievementhandlers.Handlers) error {
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

func (r *AchievementRouter) registerHandlers(handlers achievementhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		helper:     r.helper,
		metrics:    r.metrics,
	}

	registerHandler(deps, achievementevents.AchievementUnlockRequestedV1, handlers.HandleAchievementUnlockRequested)
	registerHandler(deps, achievementevents.RewardClaimRequestedV1, handlers.HandleRewardClaimRequested)
	registerHandler(deps, leaderboardevents.LeaderboardRankingUpdatedV1, handlers.HandleRankingUpdated)

	r.logger.Info("Achievement module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "achievement." + topic

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
func (r *AchievementRouter) Close() error {
	return r.router.Close()
}
