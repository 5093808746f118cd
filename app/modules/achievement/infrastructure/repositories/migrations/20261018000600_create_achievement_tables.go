package migrations

import (
	"context"
	"fmt"

	achievementdb "github.com/Black-And-White-Club/scorekeeper/app/modules/achievement/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating achievement tables...")
			for _, model := range []any{
				(*achievementdb.Achievement)(nil),
				(*achievementdb.Reward)(nil),
				(*achievementdb.PlayerAchievement)(nil),
			} {
				if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return err
				}
			}
			for _, idx := range []struct {
				model  any
				name   string
				column string
			}{
				{(*achievementdb.Achievement)(nil), "idx_achievements_game", "game_id"},
				{(*achievementdb.Achievement)(nil), "idx_achievements_leaderboard", "leaderboard_id"},
			} {
				if _, err := db.NewCreateIndex().
					Model(idx.model).
					Index(idx.name).
					Column(idx.column).
					IfNotExists().
					Exec(ctx); err != nil {
					return err
				}
			}
			fmt.Println("achievement tables created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping achievement tables...")
			for _, model := range []any{
				(*achievementdb.PlayerAchievement)(nil),
				(*achievementdb.Reward)(nil),
				(*achievementdb.Achievement)(nil),
			} {
				if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return err
				}
			}
			fmt.Println("achievement tables dropped successfully!")
			return nil
		},
	)
}
