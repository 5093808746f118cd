package gameservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GameResult is the result type of game operations.
type GameResult = results.OperationResult[*gamedomain.Game, error]

// GameService implements the Service interface.
type GameService struct {
	repo    gamedb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewGameService creates a new GameService.
func NewGameService(
	repo gamedb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// CreateGame registers a new game.
func (s *GameService) CreateGame(ctx context.Context, caller sharedtypes.UserID, meta gamedomain.Meta, authorities []sharedtypes.UserID) (*gamedomain.Game, error) {
	createTx := func(ctx context.Context, db bun.IDB) (GameResult, error) {
		return s.createGameLogic(ctx, db, caller, meta, authorities)
	}

	result, err := withTelemetry(s, ctx, "CreateGame", string(caller), func(ctx context.Context) (GameResult, error) {
		return runInTx(s, ctx, createTx)
	})
	return unwrap(result, err)
}

func (s *GameService) createGameLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, meta gamedomain.Meta, authorities []sharedtypes.UserID) (GameResult, error) {
	if err := meta.Validate(); err != nil {
		return results.FailureResult[*gamedomain.Game, error](err), nil
	}

	game := &gamedomain.Game{
		ID:          uuid.New(),
		Meta:        meta,
		Authorities: gamedomain.NewAuthorities(caller, authorities),
	}
	row := gamedb.FromDomain(game)
	if err := s.repo.Create(ctx, db, row); err != nil {
		return GameResult{}, fmt.Errorf("failed to create game: %w", err)
	}

	return results.SuccessResult[*gamedomain.Game, error](row.ToDomain()), nil
}

// UpdateGame updates the game's metadata and/or authority list.
func (s *GameService) UpdateGame(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, meta *gamedomain.Meta, authorities *[]sharedtypes.UserID) (*gamedomain.Game, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (GameResult, error) {
		return s.updateGameLogic(ctx, db, caller, gameID, meta, authorities)
	}

	result, err := withTelemetry(s, ctx, "UpdateGame", gameID.String(), func(ctx context.Context) (GameResult, error) {
		return runInTx(s, ctx, updateTx)
	})
	return unwrap(result, err)
}

func (s *GameService) updateGameLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID, meta *gamedomain.Meta, authorities *[]sharedtypes.UserID) (GameResult, error) {
	row, err := s.loadForAuthority(ctx, db, caller, gameID)
	if err != nil {
		return failureOr(err)
	}
	game := row.ToDomain()

	if meta != nil {
		if err := meta.Validate(); err != nil {
			return results.FailureResult[*gamedomain.Game, error](err), nil
		}
		game.Meta = *meta
	}
	if authorities != nil {
		replaced, err := gamedomain.ReplaceAuthorities(*authorities)
		if err != nil {
			return results.FailureResult[*gamedomain.Game, error](err), nil
		}
		game.Authorities = replaced
	}

	updated := gamedb.FromDomain(game)
	if err := s.repo.Update(ctx, db, updated); err != nil {
		return GameResult{}, fmt.Errorf("failed to update game: %w", err)
	}
	return results.SuccessResult[*gamedomain.Game, error](updated.ToDomain()), nil
}

// AddAuthority adds a single authority to the game.
func (s *GameService) AddAuthority(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, authority sharedtypes.UserID) (*gamedomain.Game, error) {
	addTx := func(ctx context.Context, db bun.IDB) (GameResult, error) {
		return s.addAuthorityLogic(ctx, db, caller, gameID, authority)
	}

	result, err := withTelemetry(s, ctx, "AddAuthority", gameID.String(), func(ctx context.Context) (GameResult, error) {
		return runInTx(s, ctx, addTx)
	})
	return unwrap(result, err)
}

func (s *GameService) addAuthorityLogic(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID, authority sharedtypes.UserID) (GameResult, error) {
	row, err := s.loadForAuthority(ctx, db, caller, gameID)
	if err != nil {
		return failureOr(err)
	}
	game := row.ToDomain()

	added, grew := game.Authorities.Add(authority)
	if !added {
		return results.SuccessResult[*gamedomain.Game, error](game), nil
	}
	if grew {
		s.logger.InfoContext(ctx, "Authority list capacity grew",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("game_id", gameID),
			attr.Int("capacity", game.Authorities.Capacity),
		)
	}

	updated := gamedb.FromDomain(game)
	if err := s.repo.Update(ctx, db, updated); err != nil {
		return GameResult{}, fmt.Errorf("failed to update authorities: %w", err)
	}
	return results.SuccessResult[*gamedomain.Game, error](updated.ToDomain()), nil
}

// GetGame retrieves a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (*gamedomain.Game, error) {
	getTx := func(ctx context.Context, db bun.IDB) (GameResult, error) {
		row, err := s.repo.GetByID(ctx, db, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*gamedomain.Game, error](err), nil
			}
			return GameResult{}, fmt.Errorf("failed to get game: %w", err)
		}
		return results.SuccessResult[*gamedomain.Game, error](row.ToDomain()), nil
	}

	result, err := withTelemetry(s, ctx, "GetGame", gameID.String(), func(ctx context.Context) (GameResult, error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// IsAuthorized reports whether caller is an authority of gameID.
func (s *GameService) IsAuthorized(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	checkTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		ok, err := s.Authorize(ctx, db, caller, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[bool, error](err), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](ok), nil
	}

	result, err := withTelemetry(s, ctx, "IsAuthorized", gameID.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, checkTx)
	})
	if err != nil {
		return false, err
	}
	if result.IsFailure() {
		return false, *result.Failure
	}
	return *result.Success, nil
}

// Authorize checks caller against the game's authority list using db.
// It returns gamedb.ErrNotFound for unknown games.
func (s *GameService) Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	row, err := s.repo.GetByID(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to get game: %w", err)
	}
	return row.ToDomain().Authorities.Contains(caller), nil
}

// loadForAuthority locks the game row and checks caller against it.
func (s *GameService) loadForAuthority(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (*gamedb.Game, error) {
	row, err := s.repo.GetForUpdate(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if !row.ToDomain().Authorities.Contains(caller) {
		return nil, scoreerrors.ErrNotAuthorized
	}
	return row, nil
}

// failureOr turns domain errors into failure results and passes the rest through.
func failureOr(err error) (GameResult, error) {
	if errors.Is(err, gamedb.ErrNotFound) || scoreerrors.IsDomain(err) {
		return results.FailureResult[*gamedomain.Game, error](err), nil
	}
	return GameResult{}, err
}

func unwrap(result GameResult, err error) (*gamedomain.Game, error) {
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *GameService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "GameService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "GameService", time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "GameService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	// Infrastructure error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "GameService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Domain failure
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "GameService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
