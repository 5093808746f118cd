package migrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/Black-And-White-Club/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating leaderboards table...")
			if _, err := db.NewCreateTable().Model((*leaderboarddb.Leaderboard)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*leaderboarddb.Leaderboard)(nil)).
				Index("idx_leaderboards_game_id").
				Column("game_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("leaderboards table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping leaderboards table...")
			_, err := db.NewDropTable().Model((*leaderboarddb.Leaderboard)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
