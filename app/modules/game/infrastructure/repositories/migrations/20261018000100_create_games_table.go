package migrations

import (
	"context"
	"fmt"

	gamedb "github.com/Black-And-White-Club/scorekeeper/app/modules/game/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating games table...")
			if _, err := db.NewCreateTable().Model((*gamedb.Game)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("games table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping games table...")
			if _, err := db.NewDropTable().Model((*gamedb.Game)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("games table dropped successfully!")
			return nil
		},
	)
}
