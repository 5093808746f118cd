package leaderboard

import (
	"context"
	"fmt"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/router"
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

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService *leaderboardservice.LeaderboardService
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// NewLeaderboardModule creates and initializes a new leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
	games leaderboardservice.GameAuthorizer,
	substrate storage.Substrate,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	repo := leaderboarddb.NewRepository(db)
	metrics := obs.Metrics("leaderboard")
	service := leaderboardservice.NewLeaderboardService(repo, games, substrate, logger, metrics, tracer, db)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, tracer)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := lbRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Route("/api/leaderboards/{id}", func(r chi.Router) {
			r.Get("/", handlers.HandleHTTPGetLeaderboard)
			r.Get("/ranking", handlers.HandleHTTPGetRanking)
			r.Get("/ranking.png", handlers.HandleHTTPRankingChart)
			r.Get("/players/{playerID}/ranked", handlers.HandleHTTPIsPlayerRanked)
			r.With(httpapi.BearerAuth(tokens)).Put("/", handlers.HandleHTTPUpdateLeaderboard)
		})
	}

	return &Module{
		LeaderboardService: service,
		LeaderboardRouter:  lbRouter,
		observability:      obs,
	}, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close shuts down the leaderboard module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.LeaderboardRouter != nil {
		if err := m.LeaderboardRouter.Close(); err != nil {
			logger.Error("Error closing LeaderboardRouter from module", "error", err)
			return fmt.Errorf("error closing LeaderboardRouter: %w", err)
		}
	}

	logger.Info("Leaderboard module stopped")
	return nil
}
