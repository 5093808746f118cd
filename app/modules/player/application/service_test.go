package playerservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	playerdomain "github.com/Black-And-White-Club/scorekeeper/app/modules/player/domain"
	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const testGrant = 500

func newTestService(repo playerdb.Repository, substrate storage.Substrate) *PlayerService {
	return NewPlayerService(repo, substrate, testGrant, slog.Default(), observability.NewNoopMetrics(), nil, nil)
}

func TestRegisterPlayer(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		username    string
		setupRepo   func(*FakePlayerRepo)
		wantBalance int64
		wantErr     bool
		wantErrType error
		wantTrace   []string
	}{
		{
			name:        "registers and funds",
			user:        "alice",
			username:    "ace",
			setupRepo:   func(*FakePlayerRepo) {},
			wantBalance: testGrant,
			wantTrace:   []string{"Create"},
		},
		{
			name:        "username too long",
			user:        "alice",
			username:    strings.Repeat("a", playerdomain.MaxUsernameLength+1),
			setupRepo:   func(*FakePlayerRepo) {},
			wantErr:     true,
			wantErrType: scoreerrors.ErrFieldTooLong,
			wantTrace:   []string{},
		},
		{
			name:        "anonymous user",
			username:    "ace",
			setupRepo:   func(*FakePlayerRepo) {},
			wantErr:     true,
			wantErrType: scoreerrors.ErrNotAuthorized,
			wantTrace:   []string{},
		},
		{
			name:     "repository failure",
			user:     "alice",
			username: "ace",
			setupRepo: func(f *FakePlayerRepo) {
				f.CreateFunc = func(context.Context, bun.IDB, *playerdb.Player) error {
					return errors.New("disk full")
				}
			},
			wantErr:   true,
			wantTrace: []string{"Create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakePlayerRepo()
			tt.setupRepo(repo)
			substrate := storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1})
			svc := newTestService(repo, substrate)

			player, err := svc.RegisterPlayer(context.Background(), sharedtypes.UserID(tt.user), tt.username)

			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, player.Username)

			balance, err := substrate.Balance(context.Background(), nil, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
		})
	}
}

func TestRegisterPlayer_GrantPerPlayer(t *testing.T) {
	substrate := storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1})
	svc := newTestService(NewFakePlayerRepo(), substrate)

	_, err := svc.RegisterPlayer(context.Background(), "alice", "one")
	require.NoError(t, err)
	_, err = svc.RegisterPlayer(context.Background(), "alice", "two")
	require.NoError(t, err)

	balance, err := substrate.Balance(context.Background(), nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2*testGrant), balance)
}

func TestUpdatePlayer(t *testing.T) {
	playerID := uuid.New()
	stored := func(f *FakePlayerRepo) {
		f.GetByIDFunc = func(context.Context, bun.IDB, uuid.UUID) (*playerdb.Player, error) {
			return &playerdb.Player{ID: playerID, Owner: "alice", Username: "ace"}, nil
		}
	}

	tests := []struct {
		name        string
		caller      string
		username    string
		setupRepo   func(*FakePlayerRepo)
		wantErrType error
		wantTrace   []string
	}{
		{
			name:      "owner renames",
			caller:    "alice",
			username:  "queen",
			setupRepo: stored,
			wantTrace: []string{"GetByID", "UpdateUsername"},
		},
		{
			name:        "other user needs approval",
			caller:      "bob",
			username:    "queen",
			setupRepo:   stored,
			wantErrType: scoreerrors.ErrMissingApproval,
			wantTrace:   []string{"GetByID"},
		},
		{
			name:        "unknown player",
			caller:      "alice",
			username:    "queen",
			setupRepo:   func(*FakePlayerRepo) {},
			wantErrType: playerdb.ErrNotFound,
			wantTrace:   []string{"GetByID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakePlayerRepo()
			tt.setupRepo(repo)
			svc := newTestService(repo, storage.NewMemorySubstrate(storage.Pricing{}))

			player, err := svc.UpdatePlayer(context.Background(), sharedtypes.UserID(tt.caller), playerID, tt.username)

			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "queen", player.Username)
		})
	}
}

func TestFundPlayer(t *testing.T) {
	playerID := uuid.New()
	substrate := storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1})
	require.NoError(t, substrate.OpenAccount(context.Background(), nil, "alice"))

	repo := NewFakePlayerRepo()
	repo.GetByIDFunc = func(_ context.Context, _ bun.IDB, id uuid.UUID) (*playerdb.Player, error) {
		if id != playerID {
			return nil, playerdb.ErrNotFound
		}
		return &playerdb.Player{ID: playerID, Owner: "alice"}, nil
	}
	svc := newTestService(repo, substrate)

	balance, err := svc.FundPlayer(context.Background(), playerID, 75)
	require.NoError(t, err)
	assert.Equal(t, int64(75), balance)

	_, err = svc.FundPlayer(context.Background(), playerID, 0)
	assert.ErrorIs(t, err, playerdomain.ErrInvalidAmount)

	_, err = svc.FundPlayer(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, playerdb.ErrNotFound)
}

func TestOwnsPlayer(t *testing.T) {
	playerID := uuid.New()
	repo := NewFakePlayerRepo()
	repo.GetByIDFunc = func(context.Context, bun.IDB, uuid.UUID) (*playerdb.Player, error) {
		return &playerdb.Player{ID: playerID, Owner: "alice"}, nil
	}
	svc := newTestService(repo, storage.NewMemorySubstrate(storage.Pricing{}))

	ok, err := svc.OwnsPlayer(context.Background(), "alice", playerID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.OwnsPlayer(context.Background(), "bob", playerID)
	require.NoError(t, err)
	assert.False(t, ok)

	owner, err := svc.Owner(context.Background(), nil, playerID)
	require.NoError(t, err)
	assert.Equal(t, "alice", string(owner))
}

func TestReassign(t *testing.T) {
	playerID := uuid.New()
	repo := NewFakePlayerRepo()
	var gotOwner sharedtypes.UserID
	repo.UpdateOwnerFunc = func(_ context.Context, _ bun.IDB, id uuid.UUID, owner sharedtypes.UserID) error {
		assert.Equal(t, playerID, id)
		gotOwner = owner
		return nil
	}
	svc := newTestService(repo, storage.NewMemorySubstrate(storage.Pricing{CostPerByte: 1}))

	require.NoError(t, svc.Reassign(context.Background(), nil, playerID, "bob"))
	assert.Equal(t, sharedtypes.UserID("bob"), gotOwner)

	repo.UpdateOwnerFunc = func(context.Context, bun.IDB, uuid.UUID, sharedtypes.UserID) error {
		return playerdb.ErrNotFound
	}
	assert.ErrorIs(t, svc.Reassign(context.Background(), nil, playerID, "bob"), playerdb.ErrNotFound)
}
