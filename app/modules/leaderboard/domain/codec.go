package leaderboarddomain

import (
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
)

const (
	// RankingHeaderSize covers the ordering byte and the K byte.
	RankingHeaderSize = 2
	// SlotSize is player id, score record and the filled flag.
	SlotSize = 16 + sharedtypes.ScoreRecordSize + 1
	// MaxRetainCount is the largest K the header can describe.
	MaxRetainCount = 255
)

// RankingLayout is the substrate layout of a ranking blob.
var RankingLayout = storage.Layout{
	HeaderSize: RankingHeaderSize,
	RecordSize: SlotSize,
}

const (
	orderingAscending  byte = 0
	orderingDescending byte = 1
)

// EncodeRanking serializes r.
func EncodeRanking(r *Ranking) ([]byte, error) {
	if r.K() > MaxRetainCount {
		return nil, fmt.Errorf("ranking of %d slots exceeds %d", r.K(), MaxRetainCount)
	}

	blob := make([]byte, RankingLayout.Size(r.K()))
	switch r.Ordering {
	case sharedtypes.Ascending:
		blob[0] = orderingAscending
	case sharedtypes.Descending:
		blob[0] = orderingDescending
	default:
		return nil, fmt.Errorf("%w: %q", sharedtypes.ErrInvalidOrdering, r.Ordering)
	}
	blob[1] = byte(r.K())
	RankingLayout.PutLength(blob, r.K())

	for i, s := range r.Slots {
		buf := RankingLayout.Record(blob, i)
		copy(buf[0:16], s.PlayerID[:])
		s.Record.MarshalTo(buf[16 : 16+sharedtypes.ScoreRecordSize])
		if s.Filled {
			buf[SlotSize-1] = 1
		}
	}
	return blob, nil
}

// DecodeRanking parses a ranking blob.
func DecodeRanking(blob []byte) (*Ranking, error) {
	if len(blob) < RankingHeaderSize+storage.LengthPrefixSize {
		return nil, fmt.Errorf("ranking blob of %d bytes is truncated", len(blob))
	}

	r := &Ranking{}
	switch blob[0] {
	case orderingAscending:
		r.Ordering = sharedtypes.Ascending
	case orderingDescending:
		r.Ordering = sharedtypes.Descending
	default:
		return nil, fmt.Errorf("%w: byte %d", sharedtypes.ErrInvalidOrdering, blob[0])
	}

	k := int(blob[1])
	n, err := RankingLayout.Length(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking length: %w", err)
	}
	if n != k {
		return nil, fmt.Errorf("ranking holds %d slots, header claims %d", n, k)
	}

	r.Slots = make([]Slot, k)
	for i := range k {
		buf := RankingLayout.Record(blob, i)
		copy(r.Slots[i].PlayerID[:], buf[0:16])
		rec, err := sharedtypes.UnmarshalScoreRecord(buf[16 : 16+sharedtypes.ScoreRecordSize])
		if err != nil {
			return nil, err
		}
		r.Slots[i].Record = rec
		r.Slots[i].Filled = buf[SlotSize-1] == 1
	}
	return r, nil
}
