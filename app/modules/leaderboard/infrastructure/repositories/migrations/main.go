package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the leaderboard module migrations.
var Migrations = migrate.NewMigrations()
