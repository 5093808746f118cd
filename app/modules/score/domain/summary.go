package scoredomain

import (
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// Summary is the read model of a ledger: its counts and latest record.
type Summary struct {
	PlayerID      uuid.UUID                `json:"player_id"`
	LeaderboardID uuid.UUID                `json:"leaderboard_id"`
	Length        int                      `json:"length"`
	Capacity      int                      `json:"capacity"`
	Last          *sharedtypes.ScoreRecord `json:"last,omitempty"`
}

// Summarize builds the summary of l.
func (l *Ledger) Summarize() Summary {
	s := Summary{
		PlayerID:      l.PlayerID,
		LeaderboardID: l.LeaderboardID,
		Length:        l.Len(),
		Capacity:      l.Capacity,
	}
	if last, ok := l.Last(); ok {
		s.Last = &last
	}
	return s
}
