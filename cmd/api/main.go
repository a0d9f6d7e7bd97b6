package main

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/api"
	"github.com/SANJIKS/sos-backend-sub001/internal/api/validator"
	v1 "github.com/SANJIKS/sos-backend-sub001/internal/api/v1"
	"github.com/SANJIKS/sos-backend-sub001/internal/auth"
	"github.com/SANJIKS/sos-backend-sub001/internal/config"
	apperrors "github.com/SANJIKS/sos-backend-sub001/internal/errors"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mysql"
	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewFiberApp,
			NewConnectionDB,
			NewValidator,

			repository.NewDonationRepository,
			repository.NewTransactionRepository,
			repository.NewConsentLogRepository,
			repository.NewTransactionManager,

			metrics.NewMetrics,
			metrics.NewSystemCollector,
			metrics.NewDatabaseMetricsCollector,

			service.NewDonationValidator,
			service.NewAccessResolver,
			service.NewConsentService,
			service.NewDonationService,
			service.NewSubscriptionService,
			service.NewGatewayResultService,

			validator.NewXValidator,
			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	system *metrics.SystemCollector, database *metrics.DatabaseMetricsCollector,
	logger *zap.Logger, lc fx.Lifecycle,
) {
	app.Use(auth.Middleware())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			system.Start(metrics.DefaultCollectInterval)
			database.Start(metrics.DefaultCollectInterval)

			go app.Listen(cfg.API.Port)

			logger.Info("api server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			system.Stop()
			database.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler()})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewValidator() *playgroundvalidator.Validate {
	return playgroundvalidator.New()
}
