package testutils

import (
	"context"
	"testing"

	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// NewSQLiteDB opens an in-memory sqlite database and applies the given migration
// sets. The database is closed when the test ends.
func NewSQLiteDB(t *testing.T, sets ...*migrate.Migrations) *bun.DB {
	t.Helper()

	db, err := bundb.OpenSQLite("")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, set := range sets {
		migrator := migrate.NewMigrator(db, set)
		if err := migrator.Init(ctx); err != nil {
			t.Fatalf("failed to init migrations: %v", err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	return db
}
