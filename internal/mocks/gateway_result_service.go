package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/stretchr/testify/mock"
)

type GatewayResultService struct {
	mock.Mock
}

func (m *GatewayResultService) Apply(ctx context.Context, cmd service.GatewayCallbackCommand) (service.CallbackResponse, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CallbackResponse), args.Error(1)
}
