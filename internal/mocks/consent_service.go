package mocks

import (
	"context"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/stretchr/testify/mock"
)

type ConsentService struct {
	mock.Mock
}

func (m *ConsentService) BuildEntry(donation *model.Donation, consentType model.ConsentType, consentText string,
	meta service.RequestMeta) *model.ConsentLog {
	args := m.Called(donation, consentType, consentText, meta)
	return args.Get(0).(*model.ConsentLog)
}

func (m *ConsentService) Append(ctx context.Context, entry *model.ConsentLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ConsentService) GetLog(donation *model.Donation) (service.GetConsentLogResponse, error) {
	args := m.Called(donation)
	return args.Get(0).(service.GetConsentLogResponse), args.Error(1)
}

func (m *ConsentService) Verify(donation *model.Donation, token string) (service.VerifyConsentResponse, error) {
	args := m.Called(donation, token)
	return args.Get(0).(service.VerifyConsentResponse), args.Error(1)
}
