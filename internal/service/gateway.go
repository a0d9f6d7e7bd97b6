package service

import (
	"context"
	"errors"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/metrics"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// GatewayResultService folds payment gateway outcomes into the ledger. Every
// outcome lands exactly once: the transaction id is unique and a sealed
// transaction is never rewritten.
type GatewayResultService interface {
	Apply(ctx context.Context, cmd GatewayCallbackCommand) (CallbackResponse, error)
}

type gatewayResult struct {
	donationRepo repository.DonationRepository
	txRepo       repository.TransactionRepository
	txManager    repository.TxManager
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewGatewayResultService(donationRepo repository.DonationRepository, txRepo repository.TransactionRepository,
	txManager repository.TxManager, m *metrics.Metrics, logger *zap.Logger) GatewayResultService {
	return &gatewayResult{donationRepo: donationRepo, txRepo: txRepo, txManager: txManager, metrics: m, logger: logger}
}

func (g *gatewayResult) Apply(ctx context.Context, cmd GatewayCallbackCommand) (CallbackResponse, error) {
	donation, err := g.donationRepo.GetByUUID(cmd.DonationUUID)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return CallbackResponse{}, NewServiceError(constants.ErrCodeDonationNotFound, err)
		}

		g.logger.Error("Failed to load donation for callback",
			zap.String("uuid", cmd.DonationUUID), zap.Error(err))
		return CallbackResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return CallbackResponse{}, NewServiceError(constants.ErrCodeInvalidRequestBody, err)
	}

	status, ok := mapGatewayStatus(cmd.Status)
	if !ok {
		return CallbackResponse{}, NewServiceError(constants.ErrCodeInvalidRequestBody, ErrUnknownGatewayStatus)
	}

	now := time.Now().UTC()

	txType := model.TransactionTypePayment
	if status == model.TransactionStatusRefunded {
		txType = model.TransactionTypeRefund
	}

	record := model.DonationTransaction{
		DonationID:            donation.ID,
		TransactionID:         cmd.TransactionID,
		ExternalTransactionID: cmd.ExternalTransactionID,
		TransactionType:       txType,
		Amount:                amount,
		Currency:              model.Currency(cmd.Currency),
		Status:                status,
		PaymentMethod:         cmd.PaymentMethod,
		Gateway:               cmd.Gateway,
		GatewayResponse:       datatypes.JSONMap(cmd.RawResponse),
		ErrorCode:             cmd.ErrorCode,
		ErrorMessage:          cmd.ErrorMessage,
		CreatedAt:             now,
	}

	err = g.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := g.recordTransaction(ctx, &record, status); err != nil {
			return err
		}

		if status == model.TransactionStatusPending {
			return g.markProcessing(ctx, donation)
		}

		if err := g.sealTransaction(ctx, &record, now); err != nil {
			return err
		}

		return g.applyOutcome(ctx, donation, status, now)
	})

	if err != nil {
		g.metrics.RecordGatewayCallback("rejected")
		return CallbackResponse{}, err
	}

	g.metrics.RecordGatewayCallback(string(status))
	g.logger.Info("Gateway result applied",
		zap.String("uuid", donation.UUID.String()),
		zap.String("transactionID", cmd.TransactionID),
		zap.String("status", string(status)))

	return CallbackResponse{TransactionID: cmd.TransactionID, Status: string(status)}, nil
}

// recordTransaction inserts the transaction row, or picks up the existing row
// from an earlier pending callback. A row that is already sealed means this
// callback is a replay.
func (g *gatewayResult) recordTransaction(ctx context.Context, record *model.DonationTransaction,
	status model.TransactionStatus) error {
	err := g.txRepo.Create(ctx, record)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repository.ErrTransactionExisted) {
		g.logger.Error("Failed to record transaction", zap.Error(err))
		return NewServiceError(ErrCodeDatabase, err)
	}

	existing, err := g.txRepo.GetByTransactionID(record.TransactionID)
	if err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}

	if existing.IsProcessed() {
		g.logger.Warn("Replayed gateway callback",
			zap.String("transactionID", record.TransactionID))
		return NewServiceError(constants.ErrCodeTransactionProcessed, ErrTransactionProcessed)
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return nil
}

func (g *gatewayResult) sealTransaction(ctx context.Context, record *model.DonationTransaction, now time.Time) error {
	err := g.txRepo.MarkProcessed(ctx, record, now)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrNoRowsAffected) {
		return NewServiceError(constants.ErrCodeTransactionProcessed, ErrTransactionProcessed)
	}

	g.logger.Error("Failed to seal transaction", zap.Error(err))
	return NewServiceError(ErrCodeDatabase, err)
}

func (g *gatewayResult) markProcessing(ctx context.Context, donation *model.Donation) error {
	if donation.Status != model.DonationStatusPending {
		return nil
	}

	donation.Status = model.DonationStatusProcessing
	if err := g.donationRepo.Update(ctx, donation); err != nil {
		g.logger.Error("Failed to mark donation processing", zap.Error(err))
		return NewServiceError(ErrCodeDatabase, err)
	}

	return nil
}

func (g *gatewayResult) applyOutcome(ctx context.Context, donation *model.Donation,
	status model.TransactionStatus, now time.Time) error {
	switch status {
	case model.TransactionStatusSuccess:
		return g.applySuccess(ctx, donation, now)

	case model.TransactionStatusFailed:
		// A failed renewal leaves a completed donation completed; only a
		// donation still waiting on its first payment flips to failed.
		if donation.Status == model.DonationStatusPending || donation.Status == model.DonationStatusProcessing {
			donation.Status = model.DonationStatusFailed
			if err := g.donationRepo.Update(ctx, donation); err != nil {
				return NewServiceError(ErrCodeDatabase, err)
			}
		}
		return nil

	case model.TransactionStatusRefunded:
		donation.Status = model.DonationStatusRefunded
		if err := g.donationRepo.Update(ctx, donation); err != nil {
			return NewServiceError(ErrCodeDatabase, err)
		}
		return nil

	default:
		return nil
	}
}

func (g *gatewayResult) applySuccess(ctx context.Context, donation *model.Donation, now time.Time) error {
	donation.Status = model.DonationStatusCompleted
	donation.PaymentCompletedAt = &now
	if donation.FirstPaymentDate == nil {
		donation.FirstPaymentDate = &now
	}

	if err := g.donationRepo.Update(ctx, donation); err != nil {
		return NewServiceError(ErrCodeDatabase, err)
	}

	if !donation.IsRecurring || donation.SubscriptionStatus == nil {
		return nil
	}

	from := *donation.SubscriptionStatus

	switch from {
	case model.SubscriptionStatusPending:
		// First successful payment activates the subscription.
		if next, ok := AddBillingInterval(donation.DonationType, now); ok {
			donation.NextPaymentDate = &next
		}

	case model.SubscriptionStatusActive:
		scheduled := now
		if donation.NextPaymentDate != nil {
			scheduled = *donation.NextPaymentDate
		}
		if next, ok := NextChargeDate(donation.DonationType, scheduled, now); ok {
			donation.NextPaymentDate = &next
		}

	default:
		// Paused or cancelled while the charge was in flight. The payment is
		// recorded but the schedule stays down.
		g.logger.Warn("Charge completed on inactive subscription",
			zap.String("uuid", donation.UUID.String()),
			zap.String("subscriptionStatus", string(from)))
		return nil
	}

	active := model.SubscriptionStatusActive
	donation.SubscriptionStatus = &active
	donation.RecurringActive = true

	err := g.donationRepo.UpdateSubscriptionState(ctx, donation, from)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrNoRowsAffected) {
		// A cancel or pause won the race. Keep the payment, drop the schedule
		// update.
		g.logger.Warn("Subscription changed while applying charge",
			zap.String("uuid", donation.UUID.String()),
			zap.String("from", string(from)))
		return nil
	}

	return NewServiceError(ErrCodeDatabase, err)
}

func mapGatewayStatus(raw string) (model.TransactionStatus, bool) {
	switch raw {
	case "success", "ok", "completed":
		return model.TransactionStatusSuccess, true
	case "failed", "error", "declined":
		return model.TransactionStatusFailed, true
	case "refunded":
		return model.TransactionStatusRefunded, true
	case "pending", "processing":
		return model.TransactionStatusPending, true
	default:
		return "", false
	}
}
