package playerservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/Black-And-White-Club/scorekeeper/pkg/results"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PlayerResult is the result type of single-player operations.
type PlayerResult = results.OperationResult[*playerdomain.Player, error]

// PlayerService implements the Service interface.
type PlayerService struct {
	repo         playerdb.Repository
	substrate    storage.Substrate
	initialGrant int64
	logger       *slog.Logger
	metrics      observability.OperationMetrics
	tracer       trace.Tracer
	db           *bun.DB
}

// NewPlayerService creates a new PlayerService. initialGrant is deposited into
// the owner's storage account for each registered player.
func NewPlayerService(
	repo playerdb.Repository,
	substrate storage.Substrate,
	initialGrant int64,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{
		repo:         repo,
		substrate:    substrate,
		initialGrant: initialGrant,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		db:           db,
	}
}

// RegisterPlayer creates a player owned by user and funds its storage account.
func (s *PlayerService) RegisterPlayer(ctx context.Context, user sharedtypes.UserID, username string) (*playerdomain.Player, error) {
	registerTx := func(ctx context.Context, db bun.IDB) (PlayerResult, error) {
		return s.registerPlayerLogic(ctx, db, user, username)
	}

	result, err := withTelemetry(s, ctx, "RegisterPlayer", string(user), func(ctx context.Context) (PlayerResult, error) {
		return runInTx(s, ctx, registerTx)
	})
	return unwrap(result, err)
}

func (s *PlayerService) registerPlayerLogic(ctx context.Context, db bun.IDB, user sharedtypes.UserID, username string) (PlayerResult, error) {
	if user == "" {
		return results.FailureResult[*playerdomain.Player, error](scoreerrors.ErrNotAuthorized), nil
	}
	if err := playerdomain.ValidateUsername(username); err != nil {
		return results.FailureResult[*playerdomain.Player, error](err), nil
	}

	row := &playerdb.Player{ID: uuid.New(), Owner: user, Username: username}
	if err := s.repo.Create(ctx, db, row); err != nil {
		return PlayerResult{}, fmt.Errorf("failed to create player: %w", err)
	}

	account := playerdomain.FundingAccount(user)
	if err := s.substrate.OpenAccount(ctx, db, account); err != nil {
		return PlayerResult{}, fmt.Errorf("failed to open storage account: %w", err)
	}
	if s.initialGrant > 0 {
		if err := s.substrate.Deposit(ctx, db, account, s.initialGrant); err != nil {
			return PlayerResult{}, fmt.Errorf("failed to deposit initial grant: %w", err)
		}
	}

	return results.SuccessResult[*playerdomain.Player, error](row.ToDomain()), nil
}

// UpdatePlayer renames a player. Only the owner may rename it.
func (s *PlayerService) UpdatePlayer(ctx context.Context, caller sharedtypes.UserID, playerID uuid.UUID, username string) (*playerdomain.Player, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (PlayerResult, error) {
		if err := playerdomain.ValidateUsername(username); err != nil {
			return results.FailureResult[*playerdomain.Player, error](err), nil
		}
		row, err := s.repo.GetByID(ctx, db, playerID)
		if err != nil {
			return failureOr(err)
		}
		if !row.ToDomain().OwnedBy(caller) {
			return results.FailureResult[*playerdomain.Player, error](scoreerrors.ErrMissingApproval), nil
		}
		if err := s.repo.UpdateUsername(ctx, db, playerID, username); err != nil {
			return failureOr(err)
		}
		row.Username = username
		return results.SuccessResult[*playerdomain.Player, error](row.ToDomain()), nil
	}

	result, err := withTelemetry(s, ctx, "UpdatePlayer", playerID.String(), func(ctx context.Context) (PlayerResult, error) {
		return runInTx(s, ctx, updateTx)
	})
	return unwrap(result, err)
}

// FundPlayer tops up the storage account that pays for the player's ledgers.
func (s *PlayerService) FundPlayer(ctx context.Context, playerID uuid.UUID, amount int64) (int64, error) {
	fundTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[int64, error], error) {
		if amount <= 0 {
			return results.FailureResult[int64, error](playerdomain.ErrInvalidAmount), nil
		}
		row, err := s.repo.GetByID(ctx, db, playerID)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[int64, error](err), nil
			}
			return results.OperationResult[int64, error]{}, err
		}
		account := playerdomain.FundingAccount(row.Owner)
		if err := s.substrate.Deposit(ctx, db, account, amount); err != nil {
			return results.OperationResult[int64, error]{}, fmt.Errorf("failed to deposit: %w", err)
		}
		balance, err := s.substrate.Balance(ctx, db, account)
		if err != nil {
			return results.OperationResult[int64, error]{}, fmt.Errorf("failed to read balance: %w", err)
		}
		return results.SuccessResult[int64, error](balance), nil
	}

	result, err := withTelemetry(s, ctx, "FundPlayer", playerID.String(), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		return runInTx(s, ctx, fundTx)
	})
	if err != nil {
		return 0, err
	}
	if result.IsFailure() {
		return 0, *result.Failure
	}
	return *result.Success, nil
}

// GetPlayer retrieves a player.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID uuid.UUID) (*playerdomain.Player, error) {
	getTx := func(ctx context.Context, db bun.IDB) (PlayerResult, error) {
		row, err := s.repo.GetByID(ctx, db, playerID)
		if err != nil {
			return failureOr(err)
		}
		return results.SuccessResult[*playerdomain.Player, error](row.ToDomain()), nil
	}

	result, err := withTelemetry(s, ctx, "GetPlayer", playerID.String(), func(ctx context.Context) (PlayerResult, error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// ListPlayers returns every player owned by owner, oldest first.
func (s *PlayerService) ListPlayers(ctx context.Context, owner sharedtypes.UserID) ([]*playerdomain.Player, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]*playerdomain.Player, error], error) {
		rows, err := s.repo.ListByOwner(ctx, db, owner)
		if err != nil {
			return results.OperationResult[[]*playerdomain.Player, error]{}, err
		}
		players := make([]*playerdomain.Player, 0, len(rows))
		for _, r := range rows {
			players = append(players, r.ToDomain())
		}
		return results.SuccessResult[[]*playerdomain.Player, error](players), nil
	}

	result, err := withTelemetry(s, ctx, "ListPlayers", string(owner), func(ctx context.Context) (results.OperationResult[[]*playerdomain.Player, error], error) {
		return runInTx(s, ctx, listTx)
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// OwnsPlayer reports whether user owns playerID.
func (s *PlayerService) OwnsPlayer(ctx context.Context, user sharedtypes.UserID, playerID uuid.UUID) (bool, error) {
	ownsTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		ok, err := s.Owns(ctx, db, user, playerID)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[bool, error](err), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](ok), nil
	}

	result, err := withTelemetry(s, ctx, "OwnsPlayer", playerID.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, ownsTx)
	})
	if err != nil {
		return false, err
	}
	if result.IsFailure() {
		return false, *result.Failure
	}
	return *result.Success, nil
}

// Owner returns the user owning playerID, or playerdb.ErrNotFound.
func (s *PlayerService) Owner(ctx context.Context, db bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error) {
	row, err := s.repo.GetByID(ctx, db, playerID)
	if err != nil {
		return "", err
	}
	return row.Owner, nil
}

// Owns reports whether user owns playerID.
func (s *PlayerService) Owns(ctx context.Context, db bun.IDB, user sharedtypes.UserID, playerID uuid.UUID) (bool, error) {
	row, err := s.repo.GetByID(ctx, db, playerID)
	if err != nil {
		return false, err
	}
	return row.ToDomain().OwnedBy(user), nil
}

// Reassign moves playerID to owner. Ledgers already opened stay charged to
// the previous owner's account.
func (s *PlayerService) Reassign(ctx context.Context, db bun.IDB, playerID uuid.UUID, owner sharedtypes.UserID) error {
	if err := s.repo.UpdateOwner(ctx, db, playerID, owner); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Player reassigned",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("player_id", playerID),
		attr.String("owner", string(owner)),
	)
	return nil
}

func failureOr(err error) (PlayerResult, error) {
	if errors.Is(err, playerdb.ErrNotFound) || scoreerrors.IsDomain(err) {
		return results.FailureResult[*playerdomain.Player, error](err), nil
	}
	return PlayerResult{}, err
}

func unwrap(result PlayerResult, err error) (*playerdomain.Player, error) {
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
	s *PlayerService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "PlayerService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "PlayerService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "PlayerService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "PlayerService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

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
		s.metrics.RecordOperationSuccess(ctx, operationName, "PlayerService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *PlayerService,
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
