package scoredomain

import (
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/capacity"
	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// Ledger is the append-only score history of one player on one leaderboard.
// len(Records) never exceeds Capacity and Capacity never shrinks.
type Ledger struct {
	PlayerID      uuid.UUID
	LeaderboardID uuid.UUID
	Capacity      int
	Records       []sharedtypes.ScoreRecord
}

// NewLedger returns an empty ledger sized by the policy's initial capacity.
func NewLedger(playerID, leaderboardID uuid.UUID, policy capacity.Policy) *Ledger {
	initial := policy.Initial
	if initial <= 0 {
		initial = capacity.DefaultInitial
	}
	return &Ledger{
		PlayerID:      playerID,
		LeaderboardID: leaderboardID,
		Capacity:      initial,
		Records:       make([]sharedtypes.ScoreRecord, 0, initial),
	}
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	return len(l.Records)
}

// Last returns the most recent record.
func (l *Ledger) Last() (sharedtypes.ScoreRecord, bool) {
	if len(l.Records) == 0 {
		return sharedtypes.ScoreRecord{}, false
	}
	return l.Records[len(l.Records)-1], true
}

// Provisioner acquires backing space for newCapacity records. It must report
// scoreerrors.ErrInsufficientCapacityFunds when the growth cannot be paid for.
type Provisioner func(newCapacity int) error

// AppendOutcome describes what an accepted append changed.
type AppendOutcome struct {
	Position         int
	Length           int
	Capacity         int
	PreviousCapacity int
	Grew             bool
}

// Append validates record against bounds and appends it, growing the ledger
// by one policy window when it is full. Growth is provisioned before any
// mutation; on any error the ledger is left untouched.
func (l *Ledger) Append(record sharedtypes.ScoreRecord, bounds sharedtypes.Bounds, policy capacity.Policy, provision Provisioner) (AppendOutcome, error) {
	if !bounds.Contains(record.Score) {
		return AppendOutcome{}, fmt.Errorf("%w: %d not in [%d, %d]",
			scoreerrors.ErrScoreOutOfBounds, record.Score, bounds.Min, bounds.Max)
	}

	newCapacity := l.Capacity
	grew := false
	if policy.NeedsGrowth(l.Capacity, len(l.Records)) {
		newCapacity = policy.Next(l.Capacity, len(l.Records))
		if provision != nil {
			if err := provision(newCapacity); err != nil {
				return AppendOutcome{}, err
			}
		}
		grew = true
	}

	previous := l.Capacity
	l.Capacity = newCapacity
	l.Records = append(l.Records, record)

	return AppendOutcome{
		Position:         len(l.Records) - 1,
		Length:           len(l.Records),
		Capacity:         l.Capacity,
		PreviousCapacity: previous,
		Grew:             grew,
	}, nil
}
