package livedomain

import (
	leaderboardevents "github.com/Black-And-White-Club/scorekeeper/pkg/events/leaderboard"
	"github.com/google/uuid"
)

// FrameType tells subscribers how to apply a frame.
type FrameType string

const (
	// FrameSnapshot carries the whole ranking and is sent once on subscribe.
	FrameSnapshot FrameType = "snapshot"
	// FrameUpdate follows every ranking change.
	FrameUpdate FrameType = "update"
)

// Frame is one websocket message of the live ranking feed.
type Frame struct {
	Type          FrameType                         `json:"type"`
	LeaderboardID uuid.UUID                         `json:"leaderboard_id"`
	PlayerID      *uuid.UUID                        `json:"player_id,omitempty"`
	Rank          int                               `json:"rank,omitempty"`
	Displaced     *leaderboardevents.RankedEntryV1  `json:"displaced,omitempty"`
	Ranking       []leaderboardevents.RankedEntryV1 `json:"ranking"`
}

func Snapshot(leaderboardID uuid.UUID, ranking []leaderboardevents.RankedEntryV1) Frame {
	if ranking == nil {
		ranking = []leaderboardevents.RankedEntryV1{}
	}
	return Frame{Type: FrameSnapshot, LeaderboardID: leaderboardID, Ranking: ranking}
}

func Update(p *leaderboardevents.LeaderboardRankingUpdatedPayloadV1) Frame {
	playerID := p.PlayerID
	return Frame{
		Type:          FrameUpdate,
		LeaderboardID: p.LeaderboardID,
		PlayerID:      &playerID,
		Rank:          p.Rank,
		Displaced:     p.Displaced,
		Ranking:       p.Ranking,
	}
}
