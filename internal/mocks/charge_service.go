package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/stretchr/testify/mock"
)

type ChargeService struct {
	mock.Mock
}

func (m *ChargeService) ChargeSubscription(ctx context.Context, cmd service.ChargeSubscriptionCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
