package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SANJIKS/sos-backend-sub001/internal/config"
	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"github.com/SANJIKS/sos-backend-sub001/pkg/paygate"
	"go.uber.org/zap"
)

// ChargeService executes one recurring charge command from the queue. The
// idempotency key pins the charge to its billing period, so a redelivered
// command cannot bill the donor twice.
type ChargeService interface {
	ChargeSubscription(ctx context.Context, cmd ChargeSubscriptionCommand) error
}

type charge struct {
	donationRepo repository.DonationRepository
	gateway      paygate.Gateway
	results      GatewayResultService
	maxRetry     int
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewChargeService(donationRepo repository.DonationRepository, gateway paygate.Gateway,
	results GatewayResultService, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) ChargeService {
	return &charge{donationRepo: donationRepo, gateway: gateway, results: results,
		maxRetry: cfg.PayGate.MaxRetries, metrics: m, logger: logger}
}

func (c *charge) ChargeSubscription(ctx context.Context, cmd ChargeSubscriptionCommand) error {
	donation, err := c.donationRepo.GetByUUID(cmd.DonationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			c.logger.Warn("Charge command for unknown donation",
				zap.String("uuid", cmd.DonationUUID))
			return nil
		}

		return mq.Temporary(err)
	}

	if !c.stillDue(donation, cmd) {
		c.metrics.RecordRecurringCharge("stale")
		return nil
	}

	idempotencyKey := fmt.Sprintf("%s:%s", cmd.DonationUUID, cmd.PeriodStart.UTC().Format("2006-01-02"))

	c.logger.Info("Charging subscription",
		zap.String("uuid", cmd.DonationUUID),
		zap.String("code", cmd.DonationCode),
		zap.String("idempotencyKey", idempotencyKey))

	request := paygate.ChargeRequest{
		DonationCode:   cmd.DonationCode,
		Amount:         cmd.Amount,
		Currency:       cmd.Currency,
		PaymentMethod:  donation.PaymentMethod,
		IdempotencyKey: idempotencyKey,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetry; attempt++ {
		resp, err := c.gateway.Charge(ctx, request)
		if err == nil {
			return c.applyResult(ctx, cmd, resp, idempotencyKey)
		}

		if errors.Is(err, paygate.ErrDuplicateCharge) {
			// The gateway already billed this period; the callback carries or
			// carried the outcome. Drop the command.
			c.logger.Warn("Charge already taken for period",
				zap.String("uuid", cmd.DonationUUID),
				zap.String("idempotencyKey", idempotencyKey))
			c.metrics.RecordRecurringCharge("duplicate")
			return nil
		}

		if errors.Is(err, paygate.ErrCardDeclined) {
			c.metrics.RecordRecurringCharge("declined")
			return c.recordDecline(ctx, cmd, idempotencyKey, err)
		}

		if !paygate.IsRetryable(err) {
			c.logger.Error("Charge failed permanently",
				zap.String("uuid", cmd.DonationUUID),
				zap.Error(err))
			c.metrics.RecordRecurringCharge("failed")
			return c.recordDecline(ctx, cmd, idempotencyKey, err)
		}

		c.logger.Warn("Charge attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("uuid", cmd.DonationUUID))
		lastErr = err
	}

	// The same idempotency key goes out on redelivery, so requeueing after
	// exhausted attempts cannot double-bill the donor.
	c.logger.Error("Gateway unavailable after all retries, requeueing charge",
		zap.Error(lastErr),
		zap.Int("maxRetries", c.maxRetry),
		zap.String("uuid", cmd.DonationUUID))
	c.metrics.RecordRecurringCharge("retry")
	return mq.Temporary(lastErr)
}

// stillDue filters stale queue messages: the subscription may have been
// cancelled, paused, or already billed since the command was published.
func (c *charge) stillDue(donation *model.Donation, cmd ChargeSubscriptionCommand) bool {
	if !donation.IsSubscriptionActive() {
		c.logger.Info("Skipping charge, subscription no longer active",
			zap.String("uuid", cmd.DonationUUID))
		return false
	}

	if donation.NextPaymentDate == nil || donation.NextPaymentDate.After(cmd.PeriodStart) {
		c.logger.Info("Skipping charge, period already billed",
			zap.String("uuid", cmd.DonationUUID),
			zap.Time("periodStart", cmd.PeriodStart))
		return false
	}

	return true
}

func (c *charge) applyResult(ctx context.Context, cmd ChargeSubscriptionCommand,
	resp paygate.Response, idempotencyKey string) error {
	transactionID := resp.Result.TransactionID
	if transactionID == "" {
		transactionID = idempotencyKey
	}

	_, err := c.results.Apply(ctx, GatewayCallbackCommand{
		DonationUUID:          cmd.DonationUUID,
		TransactionID:         transactionID,
		ExternalTransactionID: resp.Result.TransactionID,
		Status:                "success",
		Amount:                cmd.Amount,
		Currency:              cmd.Currency,
		Gateway:               "paygate",
		RawResponse: map[string]interface{}{
			"code":             resp.Code,
			"track_id":         resp.TrackID,
			"transaction_id":   resp.Result.TransactionID,
			"transaction_time": resp.Result.TransactionTime,
		},
	})

	if err != nil {
		var svcErr Error
		if errors.As(err, &svcErr) && svcErr.Code == constants.ErrCodeTransactionProcessed {
			return nil
		}

		// The donor was billed but the ledger write failed. Requeue so the
		// idempotent apply gets another chance.
		c.logger.Error("Failed to apply charge result",
			zap.String("uuid", cmd.DonationUUID),
			zap.Error(err))
		return mq.Temporary(err)
	}

	c.metrics.RecordRecurringCharge("success")
	return nil
}

func (c *charge) recordDecline(ctx context.Context, cmd ChargeSubscriptionCommand,
	idempotencyKey string, cause error) error {
	_, err := c.results.Apply(ctx, GatewayCallbackCommand{
		DonationUUID:  cmd.DonationUUID,
		TransactionID: idempotencyKey,
		Status:        "failed",
		Amount:        cmd.Amount,
		Currency:      cmd.Currency,
		Gateway:       "paygate",
		ErrorCode:     cause.Error(),
		ErrorMessage:  cause.Error(),
	})

	if err != nil {
		var svcErr Error
		if errors.As(err, &svcErr) && svcErr.Code == constants.ErrCodeTransactionProcessed {
			return nil
		}

		c.logger.Error("Failed to record declined charge",
			zap.String("uuid", cmd.DonationUUID),
			zap.Error(err))
		return mq.Temporary(err)
	}

	return nil
}
