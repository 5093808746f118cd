package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the storage substrate migrations.
var Migrations = migrate.NewMigrations()
