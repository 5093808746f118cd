package migrations

import (
	"context"
	"fmt"

	playerdb "github.com/Black-And-White-Club/scorekeeper/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating players table...")
			if _, err := db.NewCreateTable().Model((*playerdb.Player)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*playerdb.Player)(nil)).
				Index("idx_players_owner").
				Column("owner").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("players table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping players table...")
			_, err := db.NewDropTable().Model((*playerdb.Player)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
