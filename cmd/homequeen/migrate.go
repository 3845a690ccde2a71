package main

import (
	"context"
	"errors"

	"github.com/homequeen/api/repositories/postgres"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}
	cmd.AddCommand(
		migrateStepCommand("up", "Apply all pending migrations", (*postgres.DB).Migrate),
		migrateStepCommand("status", "Print the state of every migration", (*postgres.DB).MigrationStatus),
		migrateStepCommand("down", "Roll back the most recent migration", (*postgres.DB).MigrateDown),
	)
	return cmd
}

func migrateStepCommand(use, short string, step func(*postgres.DB, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			db, err := openDB(rt)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, db.Close())
			}()

			return step(db, cmd.Context())
		},
	}
}
