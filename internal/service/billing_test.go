package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/mocks"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBillingQueue_FindChargesToQueue(t *testing.T) {
	t.Run("maps due subscriptions to charge commands", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := service.NewBillingQueueService(mockRepo, zap.NewNop())

		next := time.Date(2025, time.May, 1, 6, 0, 0, 0, time.UTC)
		first := model.Donation{
			ID:              1,
			UUID:            uuid.New(),
			DonationCode:    "DUE111AAA222",
			Amount:          decimal.NewFromInt(250),
			Currency:        model.CurrencyKGS,
			NextPaymentDate: &next,
		}
		second := model.Donation{
			ID:              2,
			UUID:            uuid.New(),
			DonationCode:    "DUE333BBB444",
			Amount:          decimal.RequireFromString("10.5"),
			Currency:        model.CurrencyUSD,
			NextPaymentDate: &next,
		}

		mockRepo.On("ListDueSubscriptions", mock.AnythingOfType("time.Time"), 50).
			Return([]model.Donation{first, second}, nil)

		commands, err := svc.FindChargesToQueue(context.Background(), 50)

		require.NoError(t, err)
		require.Len(t, commands, 2)

		assert.Equal(t, int64(1), commands[0].DonationID)
		assert.Equal(t, first.UUID.String(), commands[0].DonationUUID)
		assert.Equal(t, "DUE111AAA222", commands[0].DonationCode)
		assert.Equal(t, "250.00", commands[0].Amount)
		assert.Equal(t, "KGS", commands[0].Currency)
		assert.Equal(t, next, commands[0].PeriodStart)

		assert.Equal(t, "10.50", commands[1].Amount)
		assert.Equal(t, "USD", commands[1].Currency)
	})

	t.Run("skips rows without a payment date", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := service.NewBillingQueueService(mockRepo, zap.NewNop())

		next := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
		due := model.Donation{ID: 3, UUID: uuid.New(), Amount: decimal.NewFromInt(100), NextPaymentDate: &next}
		broken := model.Donation{ID: 4, UUID: uuid.New(), Amount: decimal.NewFromInt(100)}

		mockRepo.On("ListDueSubscriptions", mock.AnythingOfType("time.Time"), 50).
			Return([]model.Donation{broken, due}, nil)

		commands, err := svc.FindChargesToQueue(context.Background(), 50)

		require.NoError(t, err)
		require.Len(t, commands, 1)
		assert.Equal(t, int64(3), commands[0].DonationID)
	})

	t.Run("quiet scan returns nothing", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := service.NewBillingQueueService(mockRepo, zap.NewNop())

		mockRepo.On("ListDueSubscriptions", mock.AnythingOfType("time.Time"), 50).
			Return([]model.Donation{}, nil)

		commands, err := svc.FindChargesToQueue(context.Background(), 50)

		require.NoError(t, err)
		assert.Nil(t, commands)
	})

	t.Run("scan failure is returned", func(t *testing.T) {
		mockRepo := &mocks.DonationRepository{}
		svc := service.NewBillingQueueService(mockRepo, zap.NewNop())

		mockRepo.On("ListDueSubscriptions", mock.AnythingOfType("time.Time"), 50).
			Return([]model.Donation(nil), errors.New("lock wait timeout"))

		commands, err := svc.FindChargesToQueue(context.Background(), 50)

		require.Error(t, err)
		assert.Nil(t, commands)
	})
}
