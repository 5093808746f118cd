package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the player module migrations.
var Migrations = migrate.NewMigrations()
