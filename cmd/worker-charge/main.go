package main

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/config"
	"github.com/SANJIKS/sos-backend-sub001/internal/consumers"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/SANJIKS/sos-backend-sub001/pkg/httpclient"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mysql"
	"github.com/SANJIKS/sos-backend-sub001/pkg/paygate"
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
			NewMQConsumer,

			repository.NewDonationRepository,
			repository.NewTransactionRepository,
			repository.NewTransactionManager,

			metrics.NewMetrics,

			NewPaymentGateway,
			service.NewGatewayResultService,
			service.NewChargeService,

			NewChargeConsumer,
		),
		fx.Invoke(runChargeConsumer),
	).Run()
}

func runChargeConsumer(cfg *config.Config, chargeConsumer consumers.ChargeConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{cfg.Recurring.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", cfg.Recurring.Queue))

			go func() {
				if err := chargeConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("charge consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping charge consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewPaymentGateway(cfg *config.Config) paygate.Gateway {
	client := httpclient.NewHTTPClient(cfg.PayGate.Timeout)
	return paygate.NewGateway(cfg.PayGate, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewChargeConsumer(cfg *config.Config, svc service.ChargeService, consumer mq.Consumer,
	logger *zap.Logger) consumers.ChargeConsumer {
	return consumers.NewChargeConsumer(svc, consumer, cfg.Recurring.Queue, cfg.Recurring.Prefetch, logger)
}
