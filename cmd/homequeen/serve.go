package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/homequeen/api/app"
	"github.com/homequeen/api/internal/observability"
	"github.com/homequeen/api/routes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: "Serves the REST API until SIGINT or SIGTERM. With DATABASE_URL or JWT_SECRET\n" +
			"unusable the server still starts but answers /api with 503.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			cfg, logger := rt.cfg, rt.logger

			shutdownTracing, err := observability.SetupTracing(cmd.Context(), cfg.Observability, cfg.Environment, logger)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), cfg.Server.ShutdownTimeout)
				defer cancel()
				runErr = errors.Join(runErr, shutdownTracing(ctx))
			}()

			deps, err := app.NewDependencies(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), cfg.Server.ShutdownTimeout)
				defer cancel()
				runErr = errors.Join(runErr, deps.Close(ctx))
			}()

			srv := &http.Server{
				Addr:              cfg.Server.Address(),
				Handler:           observability.WrapHandler(routes.SetupRoutes(deps), cfg.Observability.ServiceName),
				ReadHeaderTimeout: cfg.Server.ReadTimeout,
				ReadTimeout:       cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			grp.Go(func() error {
				logger.Info("starting API server",
					zap.String("address", srv.Addr),
					zap.String("environment", cfg.Environment),
					zap.Bool("misconfigured", deps.Misconfigured()))
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			grp.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down API server")
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			grp.Go(func() error {
				deps.StartWorkers(ctx)
				return nil
			})

			return grp.Wait()
		},
	}
}
