package scoreservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/domain"
	scoredomain "github.com/Black-And-White-Club/scorekeeper/app/modules/score/domain"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the interface for ledger operations.
type Service interface {
	RegisterPlayerForLeaderboard(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error)

	// SubmitScore appends to the player's ledger and offers the score to the
	// leaderboard's ranking in one transaction.
	SubmitScore(ctx context.Context, caller sharedtypes.UserID, playerID, leaderboardID uuid.UUID, record sharedtypes.ScoreRecord) (*SubmitOutcome, error)
	ImportScores(ctx context.Context, caller sharedtypes.UserID, leaderboardID uuid.UUID, filename string, data []byte) ([]ImportResult, error)

	GetLedgerSummary(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Summary, error)
	GetLedger(ctx context.Context, playerID, leaderboardID uuid.UUID) (*scoredomain.Ledger, error)
	ListLedgers(ctx context.Context, playerID uuid.UUID) ([]scoredomain.Summary, error)
	RenderHistoryChart(ctx context.Context, playerID, leaderboardID uuid.UUID) ([]byte, error)
}

// Leaderboards is the part of the leaderboard module that runs inside a
// submission's transaction.
type Leaderboards interface {
	Lookup(ctx context.Context, db bun.IDB, leaderboardID uuid.UUID) (*leaderboarddomain.Leaderboard, error)
	Consider(ctx context.Context, db bun.IDB, leaderboardID, playerID uuid.UUID, record sharedtypes.ScoreRecord) (*leaderboarddomain.RankingUpdate, error)
}

// GameAuthorizer checks game authorities inside a transaction.
type GameAuthorizer interface {
	Authorize(ctx context.Context, db bun.IDB, caller sharedtypes.UserID, gameID uuid.UUID) (bool, error)
}

// Players resolves player ownership inside a transaction.
type Players interface {
	Owner(ctx context.Context, db bun.IDB, playerID uuid.UUID) (sharedtypes.UserID, error)
}

// SubmitOutcome reports an accepted score.
type SubmitOutcome struct {
	PlayerID      uuid.UUID
	LeaderboardID uuid.UUID
	Record        sharedtypes.ScoreRecord
	scoredomain.AppendOutcome
	// Ranking is nil when the leaderboard keeps no ranking.
	Ranking *leaderboarddomain.RankingUpdate
}

// ImportResult is the outcome of one uploaded row.
type ImportResult struct {
	Line     int       `json:"line"`
	PlayerID uuid.UUID `json:"player_id"`
	Score    uint64    `json:"score"`
	Accepted bool      `json:"accepted"`
	Reason   string    `json:"reason,omitempty"`
	// Outcome is set for accepted rows.
	Outcome *SubmitOutcome `json:"-"`
}
