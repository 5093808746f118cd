package gamehandlers

import (
	"context"

	gameservice "github.com/Black-And-White-Club/scorekeeper/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/game/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeGameService implements gameservice.Service for handler tests.
type FakeGameService struct {
	trace []string

	CreateGameFunc   func(ctx context.Context, caller sharedtypes.UserID, meta gamedomain.Meta, authorities []sharedtypes.UserID) (*gamedomain.Game, error)
	UpdateGameFunc   func(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, meta *gamedomain.Meta, authorities *[]sharedtypes.UserID) (*gamedomain.Game, error)
	AddAuthorityFunc func(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, authority sharedtypes.UserID) (*gamedomain.Game, error)
	IsAuthorizedFunc func(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
	GetGameFunc      func(ctx context.Context, gameID uuid.UUID) (*gamedomain.Game, error)
	AuthorizeFunc    func(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
}

func NewFakeGameService() *FakeGameService {
	return &FakeGameService{trace: []string{}}
}

func (f *FakeGameService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGameService) CreateGame(ctx context.Context, caller sharedtypes.UserID, meta gamedomain.Meta, authorities []sharedtypes.UserID) (*gamedomain.Game, error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, caller, meta, authorities)
	}
	return &gamedomain.Game{ID: uuid.New(), Meta: meta}, nil
}

func (f *FakeGameService) UpdateGame(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, meta *gamedomain.Meta, authorities *[]sharedtypes.UserID) (*gamedomain.Game, error) {
	f.record("UpdateGame")
	if f.UpdateGameFunc != nil {
		return f.UpdateGameFunc(ctx, caller, gameID, meta, authorities)
	}
	return nil, nil
}

func (f *FakeGameService) AddAuthority(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, authority sharedtypes.UserID) (*gamedomain.Game, error) {
	f.record("AddAuthority")
	if f.AddAuthorityFunc != nil {
		return f.AddAuthorityFunc(ctx, caller, gameID, authority)
	}
	return nil, nil
}

func (f *FakeGameService) IsAuthorized(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	f.record("IsAuthorized")
	if f.IsAuthorizedFunc != nil {
		return f.IsAuthorizedFunc(ctx, caller, gameID)
	}
	return false, nil
}

func (f *FakeGameService) GetGame(ctx context.Context, gameID uuid.UUID) (*gamedomain.Game, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, gameID)
	}
	return nil, nil
}

func (f *FakeGameService) Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error) {
	f.record("Authorize")
	if f.AuthorizeFunc != nil {
		return f.AuthorizeFunc(ctx, db, caller, gameID)
	}
	return false, nil
}

var _ gameservice.Service = (*FakeGameService)(nil)
