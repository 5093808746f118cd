package storage

import (
	"encoding/binary"
	"fmt"
)

// LengthPrefixSize is the width of the u32 element count that follows a header.
const LengthPrefixSize = 4

// Layout describes a blob made of a fixed-width header, a u32 element count and
// a run of fixed-size records:
//
//	| header (HeaderSize) | count u32 | record 0 | record 1 | ... | record cap-1 |
//
// All integers are big-endian.
type Layout struct {
	HeaderSize int
	RecordSize int
}

// Size returns the blob size needed for capacity records.
func (l Layout) Size(capacity int) int {
	return l.HeaderSize + LengthPrefixSize + capacity*l.RecordSize
}

// Capacity returns how many records fit in a blob of size bytes.
func (l Layout) Capacity(size int) int {
	body := size - l.HeaderSize - LengthPrefixSize
	if body <= 0 || l.RecordSize <= 0 {
		return 0
	}
	return body / l.RecordSize
}

// LengthOffset is the offset of the u32 element count.
func (l Layout) LengthOffset() int {
	return l.HeaderSize
}

// RecordOffset is the offset of record i.
func (l Layout) RecordOffset(i int) int {
	return l.HeaderSize + LengthPrefixSize + i*l.RecordSize
}

// PutLength writes the element count into blob.
func (l Layout) PutLength(blob []byte, n int) {
	binary.BigEndian.PutUint32(blob[l.LengthOffset():], uint32(n))
}

// EncodeLength returns the element count as a standalone prefix.
func EncodeLength(n int) []byte {
	buf := make([]byte, LengthPrefixSize)
	binary.BigEndian.PutUint32(buf, uint32(n))
	return buf
}

// Length reads the element count from blob and checks it against the blob size.
func (l Layout) Length(blob []byte) (int, error) {
	if len(blob) < l.HeaderSize+LengthPrefixSize {
		return 0, fmt.Errorf("blob of %d bytes is shorter than header: %w", len(blob), ErrOutOfRange)
	}
	n := int(binary.BigEndian.Uint32(blob[l.LengthOffset():]))
	if n > l.Capacity(len(blob)) {
		return 0, fmt.Errorf("length %d exceeds capacity %d: %w", n, l.Capacity(len(blob)), ErrOutOfRange)
	}
	return n, nil
}

// Record returns the bytes of record i.
func (l Layout) Record(blob []byte, i int) []byte {
	off := l.RecordOffset(i)
	return blob[off : off+l.RecordSize]
}
