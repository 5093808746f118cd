package migrations

import (
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating ledgers table...")
			if _, err := db.NewCreateTable().Model((*scoredb.Ledger)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("ledgers table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping ledgers table...")
			_, err := db.NewDropTable().Model((*scoredb.Ledger)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
