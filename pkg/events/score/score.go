package scoreevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	ScoreSubmitRequestedV1 = "score.submit.requested.v1"
	ScoreAcceptedV1        = "score.accepted.v1"
	ScoreRejectedV1        = "score.rejected.v1"

	LedgerRegisterRequestedV1 = "score.ledger.register.requested.v1"
	LedgerRegisteredV1        = "score.ledger.registered.v1"
	LedgerRegisterFailedV1    = "score.ledger.register.failed.v1"
)

type ScoreSubmitRequestedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	LeaderboardID uuid.UUID          `json:"leaderboard_id"`
	Score         uint64             `json:"score"`
	Timestamp     int64              `json:"timestamp"`
}

// ScoreAcceptedPayloadV1 reports an appended ledger entry.
type ScoreAcceptedPayloadV1 struct {
	PlayerID      uuid.UUID `json:"player_id"`
	LeaderboardID uuid.UUID `json:"leaderboard_id"`
	Score         uint64    `json:"score"`
	Timestamp     int64     `json:"timestamp"`
	Position      int       `json:"position"`
	Length        int       `json:"length"`
	Capacity      int       `json:"capacity"`
	Grew          bool      `json:"grew"`
}

type ScoreRejectedPayloadV1 struct {
	PlayerID      uuid.UUID `json:"player_id"`
	LeaderboardID uuid.UUID `json:"leaderboard_id"`
	Score         uint64    `json:"score"`
	Reason        string    `json:"reason"`
}

type LedgerRegisterRequestedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	LeaderboardID uuid.UUID          `json:"leaderboard_id"`
}

type LedgerRegisteredPayloadV1 struct {
	PlayerID      uuid.UUID `json:"player_id"`
	LeaderboardID uuid.UUID `json:"leaderboard_id"`
	Capacity      int       `json:"capacity"`
}

type LedgerRegisterFailedPayloadV1 struct {
	Caller        sharedtypes.UserID `json:"caller"`
	PlayerID      uuid.UUID          `json:"player_id"`
	LeaderboardID uuid.UUID          `json:"leaderboard_id"`
	Reason        string             `json:"reason"`
}
