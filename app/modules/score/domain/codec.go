package scoredomain

import (
	"encoding/binary"
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/google/uuid"
)

// LedgerHeaderSize covers player id, leaderboard id and the u32 capacity.
const LedgerHeaderSize = 16 + 16 + 4

// LedgerLayout is the substrate layout of a ledger blob.
var LedgerLayout = storage.Layout{
	HeaderSize: LedgerHeaderSize,
	RecordSize: sharedtypes.ScoreRecordSize,
}

// EncodeLedger serializes the full ledger blob, sized for its capacity.
func EncodeLedger(l *Ledger) []byte {
	blob := make([]byte, LedgerLayout.Size(l.Capacity))
	copy(blob[0:16], l.PlayerID[:])
	copy(blob[16:32], l.LeaderboardID[:])
	binary.BigEndian.PutUint32(blob[32:36], uint32(l.Capacity))
	LedgerLayout.PutLength(blob, len(l.Records))
	for i, r := range l.Records {
		r.MarshalTo(LedgerLayout.Record(blob, i))
	}
	return blob
}

// EncodeCapacity returns the header capacity field.
func EncodeCapacity(capacity int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(capacity))
	return buf
}

// CapacityOffset is the offset of the header capacity field.
const CapacityOffset = 32

// DecodeLedger parses a ledger blob.
func DecodeLedger(blob []byte) (*Ledger, error) {
	if len(blob) < LedgerHeaderSize+storage.LengthPrefixSize {
		return nil, fmt.Errorf("ledger blob of %d bytes is truncated", len(blob))
	}

	l := &Ledger{}
	copy(l.PlayerID[:], blob[0:16])
	copy(l.LeaderboardID[:], blob[16:32])
	l.Capacity = int(binary.BigEndian.Uint32(blob[32:36]))

	if got := LedgerLayout.Capacity(len(blob)); got < l.Capacity {
		return nil, fmt.Errorf("ledger blob holds %d records, header claims %d", got, l.Capacity)
	}

	n, err := LedgerLayout.Length(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger length: %w", err)
	}
	if n > l.Capacity {
		return nil, fmt.Errorf("ledger length %d exceeds capacity %d", n, l.Capacity)
	}

	l.Records = make([]sharedtypes.ScoreRecord, n, l.Capacity)
	for i := range n {
		r, err := sharedtypes.UnmarshalScoreRecord(LedgerLayout.Record(blob, i))
		if err != nil {
			return nil, err
		}
		l.Records[i] = r
	}
	return l, nil
}

// EmptyLedgerBlob is the initial blob for a newly registered ledger.
func EmptyLedgerBlob(playerID, leaderboardID uuid.UUID, capacity int) []byte {
	return EncodeLedger(&Ledger{PlayerID: playerID, LeaderboardID: leaderboardID, Capacity: capacity})
}
