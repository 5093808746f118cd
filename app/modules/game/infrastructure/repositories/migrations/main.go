package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the game module migrations.
var Migrations = migrate.NewMigrations()
