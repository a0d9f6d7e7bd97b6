package main

import (
	"context"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/config"
	"github.com/SANJIKS/sos-backend-sub001/internal/publishers"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			repository.NewDonationRepository,

			service.NewBillingQueueService,

			NewRecurringPublisher,
		),
		fx.Invoke(runRecurringPublisher),
	).Run()
}

func runRecurringPublisher(cfg *config.Config, publisher publishers.RecurringPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{cfg.Recurring.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", cfg.Recurring.Queue))

			interval := cfg.Recurring.ScanInterval
			if interval <= 0 {
				interval = time.Minute
			}

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish charge commands", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("recurring publisher started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping recurring publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewRecurringPublisher(cfg *config.Config, svc service.BillingQueueService, publisher mq.Publisher,
	logger *zap.Logger) publishers.RecurringPublisher {
	return publishers.NewRecurringPublisher(svc, publisher, cfg.Recurring.Queue, cfg.Recurring.BatchSize, logger)
}
