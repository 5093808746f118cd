package migrations

import (
	"context"
	"fmt"

	mergedb "github.com/Black-And-White-Club/scorekeeper/app/modules/merge/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating merges table...")
			if _, err := db.NewCreateTable().Model((*mergedb.Merge)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*mergedb.Merge)(nil)).
				Index("idx_merges_initiator").
				Column("initiator").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("merges table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping merges table...")
			if _, err := db.NewDropTable().Model((*mergedb.Merge)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("merges table dropped successfully!")
			return nil
		},
	)
}
