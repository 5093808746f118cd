package live

import (
	"context"
	"fmt"
	"sync"

	livehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/live/infrastructure/handlers"
	livehub "github.com/Black-And-White-Club/scorekeeper/app/modules/live/infrastructure/hub"
	liverouter "github.com/Black-And-White-Club/scorekeeper/app/modules/live/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

// Module represents the live ranking feed.
type Module struct {
	Hub           *livehub.Hub
	LiveRouter    *liverouter.LiveRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewLiveModule creates the websocket hub, subscribes it to ranking changes
// and mounts /ws/leaderboards/{id}.
func NewLiveModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	httpRouter chi.Router,
	rankings livehandlers.Rankings,
	allowedOrigins []string,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "live.NewLiveModule initializing")

	metrics := obs.Metrics("live")
	hub := livehub.NewHub(livehub.DefaultConfig(), logger, metrics)
	handlers := livehandlers.NewLiveHandlers(hub, rankings, allowedOrigins, logger, tracer)

	liveRouter := liverouter.NewLiveRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := liveRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure live router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Get("/ws/leaderboards/{id}", handlers.HandleWebSocket)
	}

	return &Module{
		Hub:           hub,
		LiveRouter:    liveRouter,
		observability: obs,
	}, nil
}

// Run starts the live module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting live module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Live module goroutine stopped")
}

// Close drops every subscriber and shuts down the router.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping live module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.Hub.Close()

	if m.LiveRouter != nil {
		if err := m.LiveRouter.Close(); err != nil {
			logger.Error("Error closing LiveRouter from module", "error", err)
			return fmt.Errorf("error closing LiveRouter: %w", err)
		}
	}

	logger.Info("Live module stopped")
	return nil
}
