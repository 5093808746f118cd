package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the achievement module migrations.
var Migrations = migrate.NewMigrations()
