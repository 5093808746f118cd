package sharedtypes

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/Black-And-White-Club/scorekeeper/pkg/scoreerrors"
)

// UserID identifies an authenticated caller: a game authority or a player's owner.
type UserID string

// ScoreRecordSize is the encoded width of a ScoreRecord.
const ScoreRecordSize = 16

// ScoreRecord is one submitted score.
type ScoreRecord struct {
	Score     uint64 `json:"score"`
	Timestamp int64  `json:"timestamp"`
}

// MarshalTo writes the record into buf, which must hold ScoreRecordSize bytes.
func (r ScoreRecord) MarshalTo(buf []byte) {
	binary.BigEndian.PutUint64(buf[0:8], r.Score)
	binary.BigEndian.PutUint64(buf[8:16], uint64(r.Timestamp))
}

// Bytes returns the encoded record.
func (r ScoreRecord) Bytes() []byte {
	buf := make([]byte, ScoreRecordSize)
	r.MarshalTo(buf)
	return buf
}

// UnmarshalScoreRecord decodes a record from buf.
func UnmarshalScoreRecord(buf []byte) (ScoreRecord, error) {
	if len(buf) < ScoreRecordSize {
		return ScoreRecord{}, fmt.Errorf("score record needs %d bytes, got %d", ScoreRecordSize, len(buf))
	}
	return ScoreRecord{
		Score:     binary.BigEndian.Uint64(buf[0:8]),
		Timestamp: int64(binary.BigEndian.Uint64(buf[8:16])),
	}, nil
}

// Ordering decides which end of a ranking wins.
type Ordering string

const (
	// Ascending ranks lower scores better.
	Ascending Ordering = "ascending"
	// Descending ranks higher scores better.
	Descending Ordering = "descending"
)

var ErrInvalidOrdering = fmt.Errorf("%w: invalid ordering", scoreerrors.ErrInvalidArgument)

// ParseOrdering accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending", "":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrdering, s)
	}
}

// Better reports whether a ranks strictly ahead of b on score alone.
func (o Ordering) Better(a, b uint64) bool {
	if o == Ascending {
		return a < b
	}
	return a > b
}

// Bounds is an inclusive score range.
type Bounds struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

// DefaultBounds accepts every score.
func DefaultBounds() Bounds {
	return Bounds{Min: 0, Max: math.MaxUint64}
}

// Contains reports whether score lies inside the bounds.
func (b Bounds) Contains(score uint64) bool {
	return score >= b.Min && score <= b.Max
}

// Valid reports whether the range is non-empty.
func (b Bounds) Valid() bool {
	return b.Min <= b.Max
}
