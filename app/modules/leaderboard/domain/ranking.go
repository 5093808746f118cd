package leaderboarddomain

import (
	"bytes"
	"math"
	"slices"

	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// Slot is one of the K positions of a ranking. An unfilled slot is a sentinel
// and always ranks behind every real score.
type Slot struct {
	PlayerID uuid.UUID
	Record   sharedtypes.ScoreRecord
	Filled   bool
}

// Entry is a filled slot with its 0-based rank.
type Entry struct {
	Rank     int
	PlayerID uuid.UUID
	Record   sharedtypes.ScoreRecord
}

// Ranking keeps the best K scores of a leaderboard. len(Slots) is fixed at K
// and the slots are sorted best first after every mutation.
type Ranking struct {
	Ordering sharedtypes.Ordering
	Slots    []Slot
}

// Outcome reports what Consider changed. Rank is -1 when nothing changed.
// Displaced is the real entry that fell out of the ranking, if any.
type Outcome struct {
	Updated   bool
	Rank      int
	Displaced *Entry
}

// NewRanking returns a ranking of k sentinel slots.
func NewRanking(ordering sharedtypes.Ordering, k int) *Ranking {
	r := &Ranking{Ordering: ordering, Slots: make([]Slot, k)}
	for i := range r.Slots {
		r.Slots[i] = r.sentinel()
	}
	return r
}

// K returns the number of slots.
func (r *Ranking) K() int {
	return len(r.Slots)
}

func (r *Ranking) sentinel() Slot {
	s := Slot{}
	if r.Ordering == sharedtypes.Ascending {
		s.Record.Score = math.MaxUint64
	}
	return s
}

// Better reports whether a ranks strictly ahead of b: better score, then
// earlier timestamp, then lower player id bytes.
func (r *Ranking) Better(a, b Slot) bool {
	if a.Filled != b.Filled {
		return a.Filled
	}
	if !a.Filled {
		return false
	}
	if a.Record.Score != b.Record.Score {
		return r.Ordering.Better(a.Record.Score, b.Record.Score)
	}
	if a.Record.Timestamp != b.Record.Timestamp {
		return a.Record.Timestamp < b.Record.Timestamp
	}
	return bytes.Compare(a.PlayerID[:], b.PlayerID[:]) < 0
}

func (r *Ranking) compare(a, b Slot) int {
	switch {
	case r.Better(a, b):
		return -1
	case r.Better(b, a):
		return 1
	default:
		return 0
	}
}

func (r *Ranking) sort() {
	slices.SortStableFunc(r.Slots, r.compare)
}

// Consider offers a score to the ranking. Unless allowMultiple is set a
// player holds at most one slot, and only a strictly better score replaces it.
func (r *Ranking) Consider(playerID uuid.UUID, record sharedtypes.ScoreRecord, allowMultiple bool) Outcome {
	unchanged := Outcome{Rank: -1}
	if len(r.Slots) == 0 {
		return unchanged
	}

	candidate := Slot{PlayerID: playerID, Record: record, Filled: true}
	target := len(r.Slots) - 1
	own := false

	if !allowMultiple {
		if idx := r.indexOf(playerID); idx >= 0 {
			target = idx
			own = true
		}
	}

	if !r.Better(candidate, r.Slots[target]) {
		return unchanged
	}

	var displaced *Entry
	if old := r.Slots[target]; !own && old.Filled {
		displaced = &Entry{Rank: target, PlayerID: old.PlayerID, Record: old.Record}
	}

	r.Slots[target] = candidate
	r.sort()

	return Outcome{
		Updated:   true,
		Rank:      slices.Index(r.Slots, candidate),
		Displaced: displaced,
	}
}

// SetOrdering switches the ordering and re-sorts the slots.
func (r *Ranking) SetOrdering(ordering sharedtypes.Ordering) {
	if r.Ordering == ordering {
		return
	}
	r.Ordering = ordering
	for i, s := range r.Slots {
		if !s.Filled {
			r.Slots[i] = r.sentinel()
		}
	}
	r.sort()
}

// KeepBestPerPlayer frees every slot but the best one of each player and
// returns the entries that were removed.
func (r *Ranking) KeepBestPerPlayer() []Entry {
	var removed []Entry
	seen := make(map[uuid.UUID]struct{}, len(r.Slots))
	for i, s := range r.Slots {
		if !s.Filled {
			continue
		}
		if _, ok := seen[s.PlayerID]; !ok {
			seen[s.PlayerID] = struct{}{}
			continue
		}
		removed = append(removed, Entry{Rank: i, PlayerID: s.PlayerID, Record: s.Record})
		r.Slots[i] = r.sentinel()
	}
	if len(removed) > 0 {
		r.sort()
	}
	return removed
}

// Contains returns the best rank held by playerID.
func (r *Ranking) Contains(playerID uuid.UUID) (int, bool) {
	idx := r.indexOf(playerID)
	return idx, idx >= 0
}

func (r *Ranking) indexOf(playerID uuid.UUID) int {
	return slices.IndexFunc(r.Slots, func(s Slot) bool {
		return s.Filled && s.PlayerID == playerID
	})
}

// Entries returns the filled slots in rank order.
func (r *Ranking) Entries() []Entry {
	out := make([]Entry, 0, len(r.Slots))
	for i, s := range r.Slots {
		if !s.Filled {
			break
		}
		out = append(out, Entry{Rank: i, PlayerID: s.PlayerID, Record: s.Record})
	}
	return out
}

// Scores returns the score of every slot, sentinels included.
func (r *Ranking) Scores() []uint64 {
	out := make([]uint64, len(r.Slots))
	for i, s := range r.Slots {
		out[i] = s.Record.Score
	}
	return out
}
