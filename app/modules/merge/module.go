package merge

import (
	"context"
	"fmt"
	"sync"

	mergeservice "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/application"
	mergehandlers "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/handlers"
	mergedb "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories"
	mergerouter "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/router"
	"github.com/Black-And-White-Club/scorekeeper/pkg/eventbus"
	"github.com/Black-And-White-Club/scorekeeper/pkg/httpapi"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/utils"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the merge module.
type Module struct {
	MergeService  *mergeservice.MergeService
	MergeRouter   *mergerouter.MergeRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewMergeModule creates and initializes a new merge module.
func NewMergeModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	routerCtx context.Context,
	db *bun.DB,
	httpRouter chi.Router,
	tokens jwt.Service,
	players mergeservice.Players,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "merge.NewMergeModule initializing")

	repo := mergedb.NewRepository(db)
	metrics := obs.Metrics("merge")
	service := mergeservice.NewMergeService(repo, players, logger, metrics, tracer, db)
	handlers := mergehandlers.NewMergeHandlers(service, logger, tracer)

	mergeRouter := mergerouter.NewMergeRouter(logger, router, eventBus, eventBus, helpers, tracer, metrics)
	if err := mergeRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure merge router: %w", err)
	}

	if httpRouter != nil {
		httpRouter.Route("/api/merges", func(r chi.Router) {
			r.Get("/{id}", handlers.HandleHTTPGetMerge)
			r.Get("/player/{playerID}", handlers.HandleHTTPListMerges)
			r.Group(func(r chi.Router) {
				r.Use(httpapi.BearerAuth(tokens))
				r.Post("/", handlers.HandleHTTPInitiateMerge)
				r.Post("/{id}/approve", handlers.HandleHTTPApproveMerge)
			})
		})
	}

	return &Module{
		MergeService:  service,
		MergeRouter:   mergeRouter,
		observability: obs,
	}, nil
}

// Run starts the merge module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting merge module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Merge module goroutine stopped")
}

// Close shuts down the merge module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping merge module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.MergeRouter != nil {
		if err := m.MergeRouter.Close(); err != nil {
			logger.Error("Error closing MergeRouter from module", "error", err)
			return fmt.Errorf("error closing MergeRouter: %w", err)
		}
	}

	logger.Info("Merge module stopped")
	return nil
}
