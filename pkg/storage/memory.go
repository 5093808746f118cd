package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MemorySubstrate keeps blobs and balances in process memory. The db argument
// is ignored, so changes are not rolled back with a transaction.
type MemorySubstrate struct {
	mu       sync.Mutex
	pricing  Pricing
	blobs    map[uuid.UUID]*memoryBlob
	balances map[string]int64
}

type memoryBlob struct {
	owner string
	data  []byte
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate(pricing Pricing) *MemorySubstrate {
	return &MemorySubstrate{
		pricing:  pricing,
		blobs:    make(map[uuid.UUID]*memoryBlob),
		balances: make(map[string]int64),
	}
}

func (m *MemorySubstrate) Create(_ context.Context, _ bun.IDB, owner string, size int) (uuid.UUID, error) {
	if size < 0 {
		return uuid.Nil, ErrOutOfRange
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	handle := uuid.New()
	m.blobs[handle] = &memoryBlob{owner: owner, data: make([]byte, size)}
	return handle, nil
}

func (m *MemorySubstrate) Grow(_ context.Context, _ bun.IDB, handle uuid.UUID, newSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[handle]
	if !ok {
		return ErrBlobNotFound
	}
	if newSize < len(blob.data) {
		return ErrShrink
	}
	if newSize == len(blob.data) {
		return nil
	}

	balance, ok := m.balances[blob.owner]
	if !ok {
		return ErrAccountNotFound
	}
	charge := m.pricing.Charge(len(blob.data), newSize)
	if charge > balance {
		return fmt.Errorf("need %d, have %d: %w", charge, balance, ErrInsufficientFunds)
	}

	grown := make([]byte, newSize)
	copy(grown, blob.data)
	blob.data = grown
	m.balances[blob.owner] = balance - charge
	return nil
}

func (m *MemorySubstrate) Read(_ context.Context, _ bun.IDB, handle uuid.UUID, offset, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[handle]
	if !ok {
		return nil, ErrBlobNotFound
	}
	if err := checkRange(len(blob.data), offset, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, blob.data[offset:offset+n])
	return out, nil
}

func (m *MemorySubstrate) Write(_ context.Context, _ bun.IDB, handle uuid.UUID, offset int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[handle]
	if !ok {
		return ErrBlobNotFound
	}
	if err := checkRange(len(blob.data), offset, len(data)); err != nil {
		return err
	}
	copy(blob.data[offset:], data)
	return nil
}

func (m *MemorySubstrate) Size(_ context.Context, _ bun.IDB, handle uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[handle]
	if !ok {
		return 0, ErrBlobNotFound
	}
	return len(blob.data), nil
}

func (m *MemorySubstrate) OpenAccount(_ context.Context, _ bun.IDB, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.balances[owner]; !ok {
		m.balances[owner] = 0
	}
	return nil
}

func (m *MemorySubstrate) Deposit(_ context.Context, _ bun.IDB, owner string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[owner]
	if !ok {
		return ErrAccountNotFound
	}
	m.balances[owner] = balance + amount
	return nil
}

func (m *MemorySubstrate) Balance(_ context.Context, _ bun.IDB, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[owner]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return balance, nil
}

var _ Substrate = (*MemorySubstrate)(nil)
