package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	achievementmigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories/migrations"
	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	gamemigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories/migrations"
	mergemigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories/migrations"
	scoremigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories/migrations"
	storagemigrations "github.com/Black-And-White-Club/scorekeeper/pkg/storage/migrations"
)

// runMigrations applies the River schema and then every module's migrations
// in dependency order.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if err := runRiverMigrations(ctx, pgConnStr); err != nil {
		return err
	}

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"storage", storagemigrations.Migrations},
		{"game", gamemigrations.Migrations},
		{"player", playermigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
		{"score", scoremigrations.Migrations},
		{"merge", mergemigrations.Migrations},
		{"achievement", achievementmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		if err := runModuleMigrations(ctx, db, mod.migrations, mod.name); err != nil {
			return err
		}
	}
	log.Println("All migrations ran successfully")
	return nil
}

func runRiverMigrations(ctx context.Context, pgConnStr string) error {
	pool, err := achievementqueue.NewPool(ctx, pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	if err := achievementqueue.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s migrations: %w", name, err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.IsZero() {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

var appTables = []string{
	"player_achievements",
	"achievement_rewards",
	"achievements",
	"merges",
	"ledgers",
	"leaderboards",
	"players",
	"games",
	"storage_blobs",
	"storage_accounts",
}

// CleanupDatabase truncates the application tables and the River job table.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}
