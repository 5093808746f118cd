package leaderboardevents

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

const (
	LeaderboardCreateRequestedV1 = "leaderboard.create.requested.v1"
	LeaderboardCreatedV1         = "leaderboard.created.v1"
	LeaderboardCreateFailedV1    = "leaderboard.create.failed.v1"
	LeaderboardRankingUpdatedV1  = "leaderboard.ranking.updated.v1"
)

type LeaderboardCreateRequestedPayloadV1 struct {
	Caller        sharedtypes.UserID  `json:"caller"`
	GameID        uuid.UUID           `json:"game_id"`
	Description   string              `json:"description"`
	Bounds        *sharedtypes.Bounds `json:"bounds,omitempty"`
	Ordering      string              `json:"ordering"`
	AllowMultiple bool                `json:"allow_multiple"`
	RetainCount   int                 `json:"retain_count"`
	Decimals      uint8               `json:"decimals"`
}

type LeaderboardCreatedPayloadV1 struct {
	LeaderboardID uuid.UUID `json:"leaderboard_id"`
	GameID        uuid.UUID `json:"game_id"`
	RetainCount   int       `json:"retain_count"`
}

type LeaderboardCreateFailedPayloadV1 struct {
	Caller sharedtypes.UserID `json:"caller"`
	GameID uuid.UUID          `json:"game_id"`
	Reason string             `json:"reason"`
}

type RankedEntryV1 struct {
	Rank      int       `json:"rank"`
	PlayerID  uuid.UUID `json:"player_id"`
	Score     uint64    `json:"score"`
	Timestamp int64     `json:"timestamp"`
}

// LeaderboardRankingUpdatedPayloadV1 is published whenever a score changes
// a top-K ranking.
type LeaderboardRankingUpdatedPayloadV1 struct {
	LeaderboardID uuid.UUID       `json:"leaderboard_id"`
	GameID        uuid.UUID       `json:"game_id"`
	PlayerID      uuid.UUID       `json:"player_id"`
	Rank          int             `json:"rank"`
	Displaced     *RankedEntryV1  `json:"displaced,omitempty"`
	Ranking       []RankedEntryV1 `json:"ranking"`
}
