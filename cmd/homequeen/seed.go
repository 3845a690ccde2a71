package main

import (
	"errors"
	"time"

	"github.com/homequeen/api/internal/seed"
	"github.com/homequeen/api/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo household",
		Long: "Loads a demo household with a wife and a provider account, services, tasks,\n" +
			"expenses and a welcome notification. Running it again changes nothing.",
		Args: cobra.NoArgs,
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

			if migrate {
				if err := db.Migrate(cmd.Context()); err != nil {
					return err
				}
			}

			hash, err := services.NewPasswordHasher(rt.cfg.Auth.BcryptCost).Hash(seed.Password)
			if err != nil {
				return err
			}
			n, err := db.Seed(cmd.Context(), seed.Build(hash, time.Now()))
			if err != nil {
				return err
			}

			rt.logger.Info("seed completed",
				zap.Int64("rows_inserted", n),
				zap.String("login", seed.WifeEmail))
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}
