package mergedomain

import (
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
	"github.com/google/uuid"
)

// Participant is a player whose approval a merge waits on.
type Participant struct {
	PlayerID uuid.UUID `json:"player_id"`
	Approved bool      `json:"approved"`
}

// Record is a merge request. Complete becomes true once every participant
// has approved and never reverts.
type Record struct {
	ID           uuid.UUID
	Initiator    uuid.UUID
	Participants []Participant
	Complete     bool
}

// Outcome reports what an approval changed. Completed is true only for the
// approval that completed the merge.
type Outcome struct {
	Changed   bool
	Completed bool
	Pending   int
}

// Initiate builds a merge from candidates, dropping duplicates and the
// initiator. A merge without participants is complete immediately.
func Initiate(id, initiator uuid.UUID, candidates []uuid.UUID) *Record {
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	participants := make([]Participant, 0, len(candidates))
	for _, c := range candidates {
		if c == initiator {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		participants = append(participants, Participant{PlayerID: c})
	}

	return &Record{
		ID:           id,
		Initiator:    initiator,
		Participants: participants,
		Complete:     len(participants) == 0,
	}
}

// Approve marks participant as approved. Approving twice is a no-op.
func (r *Record) Approve(participant uuid.UUID) (Outcome, error) {
	idx := r.indexOf(participant)
	if idx < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", scoreerrors.ErrParticipantNotInMerge, participant)
	}

	if r.Participants[idx].Approved {
		return Outcome{Pending: r.Pending()}, nil
	}

	r.Participants[idx].Approved = true
	wasComplete := r.Complete
	pending := r.Pending()
	if pending == 0 {
		r.Complete = true
	}

	return Outcome{
		Changed:   true,
		Completed: r.Complete && !wasComplete,
		Pending:   pending,
	}, nil
}

// Pending counts participants that have not approved yet.
func (r *Record) Pending() int {
	n := 0
	for _, p := range r.Participants {
		if !p.Approved {
			n++
		}
	}
	return n
}

// Has reports whether playerID is a participant.
func (r *Record) Has(playerID uuid.UUID) bool {
	return r.indexOf(playerID) >= 0
}

func (r *Record) indexOf(playerID uuid.UUID) int {
	for i, p := range r.Participants {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}
