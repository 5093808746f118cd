package score

import (
	"context"
	"fmt"
	"sync"

	scoreservice "github.com/Black-And-White-Club/scorekeeper/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
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

// Module represents the score module.
type Module struct {
	ScoreService  *scoreservice.ScoreService
	ScoreRouter   *scorerouter.ScoreRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewScoreModule creates and initializes a new score module.
func NewScoreModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
	leaderboards scoreservice.Leaderboards,
	games scoreservice.GameAuthorizer,
	players scoreservice.Players,
	substrate storage.Substrate,
	policy capacity.Policy,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "score.NewScoreModule initializing")

	repo := scoredb.NewRepository(db)
	metrics := obs.Metrics("score")
	service := scoreservice.NewScoreService(repo, leaderboards, games, players, substrate, policy, logger, metrics, tracer, db)
	handlers := scorehandlers.NewScoreHandlers(service, logger, tracer)

	scoreRouter := scorerouter.NewScoreRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := scoreRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure score router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Route("/api/ledgers", func(r chi.Router) {
			r.Get("/{playerID}", handlers.HandleHTTPListLedgers)
			r.Get("/{playerID}/{leaderboardID}", handlers.HandleHTTPGetLedger)
			r.Get("/{playerID}/{leaderboardID}/history.png", handlers.HandleHTTPHistoryChart)
			r.With(httpapi.BearerAuth(tokens)).Post("/import/{leaderboardID}", handlers.HandleHTTPImportScores)
		})
	}

	return &Module{
		ScoreService:  service,
		ScoreRouter:   scoreRouter,
		observability: obs,
	}, nil
}

// Run starts the score module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Score module goroutine stopped")
}

// Close shuts down the score module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping score module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.ScoreRouter != nil {
		if err := m.ScoreRouter.Close(); err != nil {
			logger.Error("Error closing ScoreRouter from module", "error", err)
			return fmt.Errorf("error closing ScoreRouter: %w", err)
		}
	}

	logger.Info("Score module stopped")
	return nil
}
