package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Blob is a substrate allocation.
type Blob struct {
	bun.BaseModel `bun:"table:storage_blobs,alias:sb"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Owner     string    `bun:"owner,notnull"`
	Size      int       `bun:"size,notnull"`
	Data      []byte    `bun:"data"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Account funds blob growth for one owner.
type Account struct {
	bun.BaseModel `bun:"table:storage_accounts,alias:sa"`

	Owner     string    `bun:"owner,pk"`
	Balance   int64     `bun:"balance,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// BunSubstrate stores blobs and accounts in the application database.
type BunSubstrate struct {
	db      bun.IDB
	pricing Pricing
}

// NewBunSubstrate creates a substrate using db when callers pass a nil handle.
func NewBunSubstrate(db bun.IDB, pricing Pricing) *BunSubstrate {
	return &BunSubstrate{db: db, pricing: pricing}
}

func (s *BunSubstrate) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return s.db
	}
	return db
}

func (s *BunSubstrate) Create(ctx context.Context, db bun.IDB, owner string, size int) (uuid.UUID, error) {
	db = s.resolveDB(db)
	if size < 0 {
		return uuid.Nil, ErrOutOfRange
	}
	now := time.Now().UTC()
	blob := &Blob{
		ID:        uuid.New(),
		Owner:     owner,
		Size:      size,
		Data:      make([]byte, size),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.NewInsert().Model(blob).Exec(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create storage blob: %w", err)
	}
	return blob.ID, nil
}

func (s *BunSubstrate) Grow(ctx context.Context, db bun.IDB, handle uuid.UUID, newSize int) error {
	db = s.resolveDB(db)
	blob, err := s.lockBlob(ctx, db, handle)
	if err != nil {
		return err
	}
	if newSize < blob.Size {
		return ErrShrink
	}
	if newSize == blob.Size {
		return nil
	}

	charge := s.pricing.Charge(blob.Size, newSize)
	res, err := db.NewUpdate().
		Model((*Account)(nil)).
		Set("balance = balance - ?", charge).
		Set("updated_at = ?", time.Now().UTC()).
		Where("owner = ?", blob.Owner).
		Where("balance >= ?", charge).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to charge storage account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := s.Balance(ctx, db, blob.Owner); err != nil {
			return err
		}
		return fmt.Errorf("need %d for %d bytes: %w", charge, newSize-blob.Size, ErrInsufficientFunds)
	}

	grown := make([]byte, newSize)
	copy(grown, blob.Data)
	blob.Data = grown
	blob.Size = newSize
	return s.saveBlob(ctx, db, blob)
}

func (s *BunSubstrate) Read(ctx context.Context, db bun.IDB, handle uuid.UUID, offset, n int) ([]byte, error) {
	db = s.resolveDB(db)
	blob := new(Blob)
	err := db.NewSelect().Model(blob).Where("id = ?", handle).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read storage blob: %w", err)
	}
	if err := checkRange(len(blob.Data), offset, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, blob.Data[offset:offset+n])
	return out, nil
}

func (s *BunSubstrate) Write(ctx context.Context, db bun.IDB, handle uuid.UUID, offset int, data []byte) error {
	db = s.resolveDB(db)
	blob, err := s.lockBlob(ctx, db, handle)
	if err != nil {
		return err
	}
	if err := checkRange(len(blob.Data), offset, len(data)); err != nil {
		return err
	}
	copy(blob.Data[offset:], data)
	return s.saveBlob(ctx, db, blob)
}

func (s *BunSubstrate) Size(ctx context.Context, db bun.IDB, handle uuid.UUID) (int, error) {
	db = s.resolveDB(db)
	var size int
	err := db.NewSelect().
		Model((*Blob)(nil)).
		Column("size").
		Where("id = ?", handle).
		Scan(ctx, &size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBlobNotFound
		}
		return 0, fmt.Errorf("failed to get storage blob size: %w", err)
	}
	return size, nil
}

func (s *BunSubstrate) OpenAccount(ctx context.Context, db bun.IDB, owner string) error {
	db = s.resolveDB(db)
	now := time.Now().UTC()
	_, err := db.NewInsert().
		Model(&Account{Owner: owner, CreatedAt: now, UpdatedAt: now}).
		On("CONFLICT (owner) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage account: %w", err)
	}
	return nil
}

func (s *BunSubstrate) Deposit(ctx context.Context, db bun.IDB, owner string, amount int64) error {
	db = s.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Account)(nil)).
		Set("balance = balance + ?", amount).
		Set("updated_at = ?", time.Now().UTC()).
		Where("owner = ?", owner).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deposit into storage account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *BunSubstrate) Balance(ctx context.Context, db bun.IDB, owner string) (int64, error) {
	db = s.resolveDB(db)
	account := new(Account)
	err := db.NewSelect().Model(account).Where("owner = ?", owner).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("failed to get storage balance: %w", err)
	}
	return account.Balance, nil
}

func (s *BunSubstrate) lockBlob(ctx context.Context, db bun.IDB, handle uuid.UUID) (*Blob, error) {
	blob := new(Blob)
	q := db.NewSelect().Model(blob).Where("id = ?", handle)
	if err := bundb.ForUpdate(db, q).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to load storage blob: %w", err)
	}
	return blob, nil
}

func (s *BunSubstrate) saveBlob(ctx context.Context, db bun.IDB, blob *Blob) error {
	blob.UpdatedAt = time.Now().UTC()
	_, err := db.NewUpdate().
		Model(blob).
		Column("size", "data", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save storage blob: %w", err)
	}
	return nil
}

var _ Substrate = (*BunSubstrate)(nil)
