package achievement

import (
	"context"
	"fmt"
	"sync"

	achievementservice "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/application"
	achievementhandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/handlers"
	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	achievementrouter "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the achievement module.
type Module struct {
	AchievementService *achievementservice.AchievementService
	AchievementRouter  *achievementrouter.AchievementRouter
	QueueService       achievementqueue.QueueService
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// NewAchievementModule creates and initializes a new achievement module.
// Rewards go through River on queueDSN and are issued inline when it is
// empty.
func NewAchievementModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
	games achievementservice.GameAuthorizer,
	players achievementservice.Players,
	rankings achievementservice.RankingChecker,
	queueDSN string,
	maxWorkers int,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "achievement.NewAchievementModule initializing")

	repo := achievementdb.NewRepository(db)
	metrics := obs.Metrics("achievement")

	issuer := achievementqueue.NewIssuer(logger, eventBus, helpers, repo)
	var queue achievementqueue.QueueService
	if queueDSN != "" {
		riverQueue, err := achievementqueue.NewService(ctx, db, logger, queueDSN, maxWorkers, metrics, issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to create achievement queue: %w", err)
		}
		queue = riverQueue
	} else {
		queue = achievementqueue.NewInlineService(logger, issuer)
	}

	service := achievementservice.NewAchievementService(repo, games, players, rankings, queue, logger, metrics, tracer, db)
	handlers := achievementhandlers.NewAchievementHandlers(service, logger, tracer)

	achievementRouter := achievementrouter.NewAchievementRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := achievementRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure achievement router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Route("/api/achievements", func(r chi.Router) {
			r.Get("/{id}", handlers.HandleHTTPGetAchievement)
			r.Get("/game/{gameID}", handlers.HandleHTTPListAchievements)
			r.Get("/player/{playerID}", handlers.HandleHTTPListPlayerAchievements)
			r.Group(func(r chi.Router) {
				r.Use(httpapi.BearerAuth(tokens))
				r.Post("/game/{gameID}", handlers.HandleHTTPAddAchievement)
				r.Put("/{id}", handlers.HandleHTTPUpdateAchievement)
				r.Post("/{id}/reward", handlers.HandleHTTPAddReward)
				r.Post("/{id}/unlock", handlers.HandleHTTPUnlockAchievement)
				r.Post("/{id}/claim", handlers.HandleHTTPClaimReward)
			})
		})
	}

	return &Module{
		AchievementService: service,
		AchievementRouter:  achievementRouter,
		QueueService:       queue,
		observability:      obs,
	}, nil
}

// Run starts the achievement module and its reward queue.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting achievement module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start achievement queue", "error", err)
		return
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Achievement module goroutine stopped")
}

// Close shuts down the achievement module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping achievement module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Stop(context.Background()); err != nil {
			logger.Error("Error stopping achievement queue", "error", err)
		}
	}

	if m.AchievementRouter != nil {
		if err := m.AchievementRouter.Close(); err != nil {
			logger.Error("Error closing AchievementRouter from module", "error", err)
			return fmt.Errorf("error closing AchievementRouter: %w", err)
		}
	}

	logger.Info("Achievement module stopped")
	return nil
}
