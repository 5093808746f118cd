package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the merge module migrations.
var Migrations = migrate.NewMigrations()
