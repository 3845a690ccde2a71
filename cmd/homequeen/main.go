// Package main is the homequeen CLI executable
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/internal/observability"
	"github.com/homequeen/api/repositories/postgres"
	"github.com/homequeen/api/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

type runtimeKey struct{}

// runtime is what PersistentPreRunE hands to every subcommand
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "homequeen [command]",
		Short:        "Home Queen household management API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, err := initLogger(cfg.Observability)
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded",
				zap.String("environment", cfg.Environment),
				zap.String("database", cfg.Database.LogString()))
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, &runtime{cfg: cfg, logger: logger}))
			return nil
		},
	}

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
		workerCommand(),
	)

	return cmd
}

// initLogger builds the process logger tagged with the service name
func initLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.ServiceName != "" {
		logger = logger.With(zap.String("service", cfg.ServiceName))
	}
	return logger, nil
}

func fromContext(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return rt, nil
}

// openDB connects for the maintenance commands, which have no 503 fallback
func openDB(rt *runtime) (*postgres.DB, error) {
	if !config.IsUsableDatabaseURL(rt.cfg.Database.ConnectionString) {
		return nil, errors.New(services.ProblemHint(config.ProblemDatabaseURL))
	}
	db, err := postgres.NewDB(rt.cfg.Database, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
