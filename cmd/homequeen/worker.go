package main

import (
	"errors"

	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/repositories/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume domain events into notifications",
		Long:  "Consumes booking and user events from RabbitMQ and writes in-app notifications.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			broker := rt.cfg.Broker
			if broker.RabbitURL == "" {
				return errors.New("RABBIT_URL is not set")
			}

			db, err := openDB(rt)
			if err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, db.Close())
			}()

			repos := postgres.NewRepositoryFactoryFromDB(db, rt.logger).NewRepositories()
			projector := events.NewNotificationProjector(repos.Notifications, rt.logger)

			consumer := events.NewRabbitConsumer(events.ConsumerConfig{
				URL:      broker.RabbitURL,
				Exchange: broker.Exchange,
				Queue:    broker.NotifyQueue,
				Tag:      "homequeen-worker",
			}, projector, rt.logger)
			if err := consumer.Connect(); err != nil {
				return err
			}
			defer func() {
				runErr = errors.Join(runErr, consumer.Close())
			}()

			rt.logger.Info("worker started", zap.String("queue", broker.NotifyQueue))
			return consumer.Run(cmd.Context())
		},
	}
}
