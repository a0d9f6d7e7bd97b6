package mocks

import (
	"context"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.DonationTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) MarkProcessed(ctx context.Context, tx *model.DonationTransaction, processedAt time.Time) error {
	args := m.Called(ctx, tx, processedAt)
	return args.Error(0)
}

func (m *TransactionRepository) GetByTransactionID(transactionID string) (*model.DonationTransaction, error) {
	args := m.Called(transactionID)
	return args.Get(0).(*model.DonationTransaction), args.Error(1)
}

func (m *TransactionRepository) ListByDonationID(donationID int64) ([]model.DonationTransaction, error) {
	args := m.Called(donationID)
	return args.Get(0).([]model.DonationTransaction), args.Error(1)
}
