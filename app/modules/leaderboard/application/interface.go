package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for leaderboard operations.
type Service interface {
	CreateLeaderboard(ctx context.Context, caller sharedtypes.UserID, gameID uuid.UUID, input leaderboarddomain.Input) (*leaderboarddomain.Leaderboard, error)
	UpdateLeaderboard(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, update leaderboarddomain.Update) (*leaderboarddomain.Leaderboard, error)
	GetLeaderboard(ctx context.Context, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error)
	ListLeaderboards(ctx context.Context, gameID uuid.UUID) ([]*leaderboarddomain.Leaderboard, error)

	// ConsiderScore offers a score to the ranking in its own transaction.
	ConsiderScore(ctx context.Context, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error)
	GetRanking(ctx context.Context, leaderboardID uuid.UUID) ([]leaderboarddomain.Entry, error)
	IsPlayerRanked(ctx context.Context, leaderboardID, playerID uuid.UUID) (bool, error)
	RenderRankingChart(ctx context.Context, leaderboardID uuid.UUID) ([]byte, error)

	// Lookup, Consider and IsRanked run on an existing transaction for other modules.
	Lookup(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error)
	Consider(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error)
	IsRanked(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID) (bool, error)
}

// GameAuthorizer checks game authorities inside a transaction.
type GameAuthorizer interface {
	Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
}
