package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/app/modules/achievement"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/game"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/live"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/merge"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/player"
	"github.com/Black-And-White-Club/scorekeeper/app/modules/score"
	"github.com/Black-And-White-Club/scorekeeper/config"
	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/events"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// App owns every long-lived component of the service.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router
	Modules       *Modules

	server       *http.Server
	routerCtx    context.Context
	routerCancel context.CancelFunc
}

// Modules groups the domain modules.
type Modules struct {
	Game        *game.Module
	Player      *player.Module
	Leaderboard *leaderboard.Module
	Score       *score.Module
	Merge       *merge.Module
	Achievement *achievement.Module
	Live        *live.Module
}

type runnable interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

func (m *Modules) all() []runnable {
	return []runnable{m.Game, m.Player, m.Leaderboard, m.Score, m.Merge, m.Achievement, m.Live}
}

// NewApp connects to the database and the event bus and builds every module.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger

	db, err := bundb.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	var bus eventbus.EventBus
	if cfg.NATS.InMemory {
		logger.WarnContext(ctx, "Using in-memory event bus")
		bus = eventbus.NewInMemoryEventBus(logger)
	} else {
		bus, err = eventbus.NewEventBus(ctx, eventbus.Options{
			URL:      cfg.NATS.URL,
			NKeySeed: cfg.NATS.NKeySeed,
			AppType:  "backend",
		}, logger, obs.Registry.Tracer)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	for _, stream := range events.Streams() {
		if err := bus.CreateStream(ctx, stream); err != nil {
			bus.Close()
			db.Close()
			return nil, fmt.Errorf("failed to create stream %q: %w", stream, err)
		}
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, middleware.CorrelationID)

	httpRouter := chi.NewRouter()
	httpRouter.Use(httpapi.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	httpRouter.Use(httpapi.RateLimitMiddleware(httpapi.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)))
	httpRouter.Handle("/metrics", promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{}))
	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	a := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
		HTTPRouter:    httpRouter,
	}
	a.routerCtx, a.routerCancel = context.WithCancel(ctx)

	if err := a.initializeModules(ctx); err != nil {
		a.routerCancel()
		bus.Close()
		db.Close()
		return nil, err
	}

	a.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return a, nil
}

func (a *App) initializeModules(ctx context.Context) error {
	cfg := a.Config
	obs := a.Observability
	helpers := utils.NewHelper()
	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL)
	substrate := storage.NewBunSubstrate(a.DB, storage.Pricing{CostPerByte: cfg.Scoring.CostPerByte})
	policy := capacity.Policy{Initial: cfg.Scoring.InitialCapacity, Window: cfg.Scoring.GrowthWindow}

	gameModule, err := game.NewGameModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens)
	if err != nil {
		return fmt.Errorf("failed to initialize game module: %w", err)
	}

	playerModule, err := player.NewPlayerModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens, substrate, cfg.Scoring.InitialGrant)
	if err != nil {
		return fmt.Errorf("failed to initialize player module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens,
		gameModule.GameService, substrate)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	scoreModule, err := score.NewScoreModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens,
		leaderboardModule.LeaderboardService, gameModule.GameService, playerModule.PlayerService, substrate, policy)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}

	mergeModule, err := merge.NewMergeModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens,
		playerModule.PlayerService)
	if err != nil {
		return fmt.Errorf("failed to initialize merge module: %w", err)
	}

	queueDSN := ""
	if cfg.Queue.Enabled {
		queueDSN = cfg.Postgres.DSN
	}
	achievementModule, err := achievement.NewAchievementModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.DB, a.HTTPRouter, tokens,
		gameModule.GameService, playerModule.PlayerService, leaderboardModule.LeaderboardService, queueDSN, cfg.Queue.MaxWorkers)
	if err != nil {
		return fmt.Errorf("failed to initialize achievement module: %w", err)
	}

	liveModule, err := live.NewLiveModule(ctx, obs, a.EventBus, a.Router, helpers, a.routerCtx, a.HTTPRouter,
		leaderboardModule.LeaderboardService, cfg.HTTP.AllowedOrigins)
	if err != nil {
		return fmt.Errorf("failed to initialize live module: %w", err)
	}

	a.Modules = &Modules{
		Game:        gameModule,
		Player:      playerModule,
		Leaderboard: leaderboardModule,
		Score:       scoreModule,
		Merge:       mergeModule,
		Achievement: achievementModule,
		Live:        liveModule,
	}
	return nil
}

// Run starts the modules, the Watermill router and the HTTP server, and
// blocks until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Provider.Logger

	wg := &sync.WaitGroup{}
	for _, m := range a.Modules.all() {
		wg.Add(1)
		go m.Run(ctx, wg)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := a.Router.Run(a.routerCtx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("watermill router stopped: %w", err)
		}
	}()
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		logger.ErrorContext(ctx, "Service component failed", attr.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", attr.Error(err))
	}

	a.Close()
	wg.Wait()
	return runErr
}

// Close stops the modules, the router, the event bus and the database.
func (a *App) Close() {
	logger := a.Observability.Provider.Logger

	if a.Modules != nil {
		for _, m := range a.Modules.all() {
			if err := m.Close(); err != nil {
				logger.Error("Module close failed", attr.Error(err))
			}
		}
	}
	if a.routerCancel != nil {
		a.routerCancel()
	}
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			logger.Error("Event bus close failed", attr.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Error("Database close failed", attr.Error(err))
		}
	}
}
