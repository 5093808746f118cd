package game

import (
	"context"
	"fmt"
	"sync"

	gameservice "github.com/Black-And-White-Club/scorekeeper/app/modules/game/application"
	gamehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/handlers"
	gamedb "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories"
	gamerouter "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the game module.
type Module struct {
	GameService   *gameservice.GameService
	GameRouter    *gamerouter.GameRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGameModule creates and initializes a new game module.
func NewGameModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	repo := gamedb.NewRepository(db)
	metrics := obs.Metrics("game")
	service := gameservice.NewGameService(repo, logger, metrics, tracer, db)
	handlers := gamehandlers.NewGameHandlers(service, logger, tracer)

	gameRouter := gamerouter.NewGameRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := gameRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure game router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Route("/api/games/{id}", func(r chi.Router) {
			r.Get("/", handlers.HandleHTTPGetGame)
			r.Group(func(r chi.Router) {
				r.Use(httpapi.BearerAuth(tokens))
				r.Put("/", handlers.HandleHTTPUpdateGame)
				r.Post("/authorities", handlers.HandleHTTPAddAuthority)
			})
		})
	}

	return &Module{
		GameService:   service,
		GameRouter:    gameRouter,
		observability: obs,
	}, nil
}

// Run starts the game module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting game module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close shuts down the game module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping game module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.GameRouter != nil {
		if err := m.GameRouter.Close(); err != nil {
			logger.Error("Error closing GameRouter from module", "error", err)
			return fmt.Errorf("error closing GameRouter: %w", err)
		}
	}

	logger.Info("Game module stopped")
	return nil
}
