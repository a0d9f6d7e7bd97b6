package publishers

import (
	"context"
	"encoding/json"

	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"go.uber.org/zap"
)

type RecurringPublisher interface {
	Publish(ctx context.Context) error
}

type recurringPublisher struct {
	service   service.BillingQueueService
	publisher mq.Publisher
	queue     string
	batchSize int
	logger    *zap.Logger
}

func NewRecurringPublisher(svc service.BillingQueueService, publisher mq.Publisher,
	queue string, batchSize int, logger *zap.Logger) RecurringPublisher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &recurringPublisher{service: svc, publisher: publisher, queue: queue, batchSize: batchSize, logger: logger}
}

func (r *recurringPublisher) Publish(ctx context.Context) error {
	commands, err := r.service.FindChargesToQueue(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if len(commands) == 0 {
		return nil
	}

	r.logger.Info("Publishing charge commands", zap.Int("count", len(commands)))

	successCount := 0
	for _, cmd := range commands {
		body, _ := json.Marshal(cmd)
		if err := r.publisher.Publish(ctx, "", r.queue, body); err != nil {
			r.logger.Error("Failed to publish charge command",
				zap.Error(err),
				zap.String("uuid", cmd.DonationUUID))
			continue
		}

		successCount++
	}

	if successCount > 0 {
		r.logger.Info("Successfully published charge commands",
			zap.Int("published", successCount),
			zap.Int("total", len(commands)))
	}

	return nil
}
