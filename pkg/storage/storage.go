// Package storage is the byte-addressed substrate that backs score ledgers and
// rankings. Blobs belong to a funding account; growing a blob is charged to
// that account and fails atomically when the balance cannot cover it.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrBlobNotFound      = errors.New("storage blob not found")
	ErrAccountNotFound   = errors.New("storage account not found")
	ErrInsufficientFunds = errors.New("insufficient storage funds")
	ErrShrink            = errors.New("storage blobs cannot shrink")
	ErrOutOfRange        = errors.New("storage access out of range")
)

// Substrate stores fixed-layout blobs. Every method takes the bun handle of the
// caller's transaction so blob changes commit or roll back with it.
type Substrate interface {
	// Create allocates a zeroed blob of size bytes owned by owner.
	Create(ctx context.Context, db bun.IDB, owner string, size int) (uuid.UUID, error)

	// Grow extends a blob to newSize bytes, charging the added bytes to the owner.
	Grow(ctx context.Context, db bun.IDB, handle uuid.UUID, newSize int) error

	// Read returns n bytes starting at offset.
	Read(ctx context.Context, db bun.IDB, handle uuid.UUID, offset, n int) ([]byte, error)

	// Write overwrites len(data) bytes starting at offset.
	Write(ctx context.Context, db bun.IDB, handle uuid.UUID, offset int, data []byte) error

	// Size returns the current blob size in bytes.
	Size(ctx context.Context, db bun.IDB, handle uuid.UUID) (int, error)

	// OpenAccount creates an empty funding account; it is a no-op for existing owners.
	OpenAccount(ctx context.Context, db bun.IDB, owner string) error

	// Deposit adds amount to the owner's balance.
	Deposit(ctx context.Context, db bun.IDB, owner string, amount int64) error

	// Balance returns the owner's balance.
	Balance(ctx context.Context, db bun.IDB, owner string) (int64, error)
}

// Pricing converts grown bytes into a charge.
type Pricing struct {
	CostPerByte int64
}

// Charge returns the cost of growing a blob from oldSize to newSize.
func (p Pricing) Charge(oldSize, newSize int) int64 {
	if newSize <= oldSize {
		return 0
	}
	return int64(newSize-oldSize) * p.CostPerByte
}

func checkRange(size, offset, n int) error {
	if offset < 0 || n < 0 || offset+n > size {
		return ErrOutOfRange
	}
	return nil
}
