package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/stretchr/testify/mock"
)

type BillingQueueService struct {
	mock.Mock
}

func (m *BillingQueueService) FindChargesToQueue(ctx context.Context, limit int) ([]service.ChargeSubscriptionCommand, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]service.ChargeSubscriptionCommand), args.Error(1)
}
