package service

import (
	"context"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/repository"
	"go.uber.org/zap"
)

// BillingQueueService finds subscriptions whose payment date has arrived and
// turns them into charge commands. Publishing is at-least-once; the charge
// side dedupes by billing period, so a rescan before the charge lands is
// harmless.
type BillingQueueService interface {
	FindChargesToQueue(ctx context.Context, limit int) ([]ChargeSubscriptionCommand, error)
}

type billingQueue struct {
	donationRepo repository.DonationRepository
	logger       *zap.Logger
}

func NewBillingQueueService(donationRepo repository.DonationRepository, logger *zap.Logger) BillingQueueService {
	return &billingQueue{donationRepo: donationRepo, logger: logger}
}

func (b *billingQueue) FindChargesToQueue(ctx context.Context, limit int) ([]ChargeSubscriptionCommand, error) {
	b.logger.Debug("Scanning for due subscriptions", zap.Int("batchSize", limit))

	now := time.Now().UTC()

	due, err := b.donationRepo.ListDueSubscriptions(now, limit)
	if err != nil {
		b.logger.Error("Failed to scan due subscriptions", zap.Error(err))
		return nil, err
	}

	if len(due) == 0 {
		b.logger.Debug("No subscriptions due")
		return nil, nil
	}

	commands := make([]ChargeSubscriptionCommand, 0, len(due))
	for _, donation := range due {
		if donation.NextPaymentDate == nil {
			continue
		}

		commands = append(commands, ChargeSubscriptionCommand{
			DonationID:   donation.ID,
			DonationUUID: donation.UUID.String(),
			DonationCode: donation.DonationCode,
			Amount:       donation.Amount.StringFixed(2),
			Currency:     string(donation.Currency),
			PeriodStart:  donation.NextPaymentDate.UTC(),
		})
	}

	return commands, nil
}
