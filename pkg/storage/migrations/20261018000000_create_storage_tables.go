package migrations

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/scorekeeper/pkg/storage"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(CreateStorageTables, DropStorageTables)
}

// CreateStorageTables creates the blob and funding account tables.
func CreateStorageTables(ctx context.Context, db *bun.DB) error {
	fmt.Println("Creating storage tables...")
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().Model((*storage.Account)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create storage_accounts table: %w", err)
		}
		if _, err := tx.NewCreateTable().Model((*storage.Blob)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create storage_blobs table: %w", err)
		}
		if _, err := tx.NewCreateIndex().
			Model((*storage.Blob)(nil)).
			Index("idx_storage_blobs_owner").
			IfNotExists().
			Column("owner").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create storage_blobs owner index: %w", err)
		}
		fmt.Println("Storage tables created successfully!")
		return nil
	})
}

// DropStorageTables drops the storage tables.
func DropStorageTables(ctx context.Context, db *bun.DB) error {
	fmt.Println("Dropping storage tables...")
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDropTable().Model((*storage.Blob)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop storage_blobs table: %w", err)
		}
		if _, err := tx.NewDropTable().Model((*storage.Account)(nil)).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop storage_accounts table: %w", err)
		}
		return nil
	})
}
