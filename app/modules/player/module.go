package player

import (
	"context"
	"fmt"
	"sync"

	playerservice "github.com/Black-And-White-Club/scorekeeper/app/modules/player/application"
	playerhandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/handlers"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	playerrouter "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the player module.
type Module struct {
	PlayerService *playerservice.PlayerService
	PlayerRouter  *playerrouter.PlayerRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewPlayerModule creates and initializes a new player module.
func NewPlayerModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
	substrate storage.Substrate,
	initialGrant int64,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "player.NewPlayerModule initializing")

	repo := playerdb.NewRepository(db)
	metrics := obs.Metrics("player")
	service := playerservice.NewPlayerService(repo, substrate, initialGrant, logger, metrics, tracer, db)
	handlers := playerhandlers.NewPlayerHandlers(service, logger, tracer)

	playerRouter := playerrouter.NewPlayerRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := playerRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure player router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Get("/api/players/{id}", handlers.HandleHTTPGetPlayer)
		httpRouter.Group(func(r chi.Router) {
			r.Use(httpapi.BearerAuth(tokens))
			r.Get("/api/players", handlers.HandleHTTPListPlayers)
			r.Put("/api/players/{id}", handlers.HandleHTTPUpdatePlayer)
			r.Post("/api/players/{id}/fund", handlers.HandleHTTPFundPlayer)
		})
	}

	return &Module{
		PlayerService: service,
		PlayerRouter:  playerRouter,
		observability: obs,
	}, nil
}

// Run starts the player module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting player module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Player module goroutine stopped")
}

// Close shuts down the player module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping player module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.PlayerRouter != nil {
		if err := m.PlayerRouter.Close(); err != nil {
			logger.Error("Error closing PlayerRouter from module", "error", err)
			return fmt.Errorf("error closing PlayerRouter: %w", err)
		}
	}

	logger.Info("Player module stopped")
	return nil
}
