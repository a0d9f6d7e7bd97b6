package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/pkg/paygate"
	"github.com/stretchr/testify/mock"
)

type PaymentGateway struct {
	mock.Mock
}

func (p *PaymentGateway) Charge(ctx context.Context, request paygate.ChargeRequest) (paygate.Response, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(paygate.Response), args.Error(1)
}
