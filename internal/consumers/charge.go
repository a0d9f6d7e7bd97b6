package consumers

import (
	"context"
	"encoding/json"

	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"go.uber.org/zap"
)

type ChargeConsumer interface {
	Consume(ctx context.Context) error
}

type chargeConsumer struct {
	service  service.ChargeService
	consumer mq.Consumer
	queue    string
	prefetch int
	logger   *zap.Logger
}

func NewChargeConsumer(svc service.ChargeService, consumer mq.Consumer,
	queue string, prefetch int, logger *zap.Logger) ChargeConsumer {
	return &chargeConsumer{service: svc, consumer: consumer, queue: queue, prefetch: prefetch, logger: logger}
}

func (c *chargeConsumer) Consume(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.prefetch, c.queue, c.handleMessage)
}

func (c *chargeConsumer) handleMessage(ctx context.Context, body []byte) error {
	c.logger.Info("received charge command", zap.ByteString("body", body))

	var cmd service.ChargeSubscriptionCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		c.logger.Warn("invalid charge command", zap.Error(err))
		return err
	}

	return c.service.ChargeSubscription(ctx, cmd)
}
