package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/scorekeeper/config"
	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	achievementmigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories/migrations"
	achievementqueue "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/queue"
	gamemigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories/migrations"
	mergemigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories/migrations"
	scoremigrations "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories/migrations"
	storagemigrations "github.com/Black-And-White-Club/scorekeeper/pkg/storage/migrations"
)

// moduleMigrator pairs a module with its migrator. Modules migrate in slice
// order and roll back in reverse.
type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

func main() {
	var cfg *config.Config

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "scorekeeper database tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			return nil
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(func() *config.Config { return cfg }),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openMigrators(c *cli.Context, cfg *config.Config) ([]moduleMigrator, func(), error) {
	db, err := bundb.Open(c.Context, cfg.Postgres, nil)
	if err != nil {
		return nil, nil, err
	}
	migrators := []moduleMigrator{
		{"storage", migrate.NewMigrator(db, storagemigrations.Migrations)},
		{"game", migrate.NewMigrator(db, gamemigrations.Migrations)},
		{"player", migrate.NewMigrator(db, playermigrations.Migrations)},
		{"leaderboard", migrate.NewMigrator(db, leaderboardmigrations.Migrations)},
		{"score", migrate.NewMigrator(db, scoremigrations.Migrations)},
		{"merge", migrate.NewMigrator(db, mergemigrations.Migrations)},
		{"achievement", migrate.NewMigrator(db, achievementmigrations.Migrations)},
	}
	return migrators, func() { db.Close() }, nil
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s", name)
}

// withMigrators opens the database for the duration of one command.
func withMigrators(cfg func() *config.Config, fn func(c *cli.Context, migrators []moduleMigrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		migrators, closeDB, err := openMigrators(c, cfg())
		if err != nil {
			return err
		}
		defer closeDB()
		return fn(c, migrators)
	}
}

func newMultiModuleDBCommand(cfg func() *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							fmt.Printf("Error initializing migrations for module %s: %v\n", m.name, err)
							return err
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Running migrations for module: %s\n", m.name)
						group, err := m.migrator.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "river",
				Usage: "migrate the River job tables used by the reward queue",
				Action: func(c *cli.Context) error {
					conf := cfg()
					if conf.Postgres.Driver != bundb.DriverPostgres {
						return fmt.Errorf("river requires the postgres driver, got %q", conf.Postgres.Driver)
					}
					pool, err := achievementqueue.NewPool(c.Context, conf.Postgres.DSN)
					if err != nil {
						return err
					}
					defer pool.Close()
					if err := achievementqueue.Migrate(c.Context, pool); err != nil {
						return err
					}
					fmt.Println("River migrations applied")
					return nil
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					moduleName := c.Args().First()
					migrator, err := findMigrator(migrators, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "create_sql",
				Usage: "create up and down SQL migrations",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					moduleName := c.Args().First()
					migrator, err := findMigrator(migrators, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}

					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}

					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(cfg, func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
