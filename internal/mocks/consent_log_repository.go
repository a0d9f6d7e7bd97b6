package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/stretchr/testify/mock"
)

type ConsentLogRepository struct {
	mock.Mock
}

func (m *ConsentLogRepository) Create(ctx context.Context, entry *model.ConsentLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ConsentLogRepository) ListByDonationID(donationID int64) ([]model.ConsentLog, error) {
	args := m.Called(donationID)
	return args.Get(0).([]model.ConsentLog), args.Error(1)
}
