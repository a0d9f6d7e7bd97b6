package publishers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/mocks"
	"github.com/SANJIKS/sos-backend-sub001/internal/publishers"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chargeBodyWithUUID(donationUUID string) interface{} {
	return mock.MatchedBy(func(body []byte) bool {
		var cmd service.ChargeSubscriptionCommand
		if err := json.Unmarshal(body, &cmd); err != nil {
			return false
		}
		return cmd.DonationUUID == donationUUID
	})
}

func TestRecurringPublisher_Publish(t *testing.T) {
	logger := zap.NewNop()
	periodStart := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	commands := []service.ChargeSubscriptionCommand{
		{
			DonationID:   1,
			DonationUUID: "uuid-1",
			DonationCode: "CODE11111111",
			Amount:       "100.00",
			Currency:     "KGS",
			PeriodStart:  periodStart,
		},
		{
			DonationID:   2,
			DonationUUID: "uuid-2",
			DonationCode: "CODE22222222",
			Amount:       "25.00",
			Currency:     "USD",
			PeriodStart:  periodStart,
		},
	}

	t.Run("publishes every due charge", func(t *testing.T) {
		mockService := &mocks.BillingQueueService{}
		mockPublisher := &mocks.Publisher{}

		pub := publishers.NewRecurringPublisher(mockService, mockPublisher, "donation.charge", 100, logger)

		mockService.On("FindChargesToQueue", mock.Anything, 100).Return(commands, nil)
		mockPublisher.On("Publish", mock.Anything, "", "donation.charge", chargeBodyWithUUID("uuid-1")).Return(nil)
		mockPublisher.On("Publish", mock.Anything, "", "donation.charge", chargeBodyWithUUID("uuid-2")).Return(nil)

		err := pub.Publish(context.Background())

		require.NoError(t, err)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("quiet scan publishes nothing", func(t *testing.T) {
		mockService := &mocks.BillingQueueService{}
		mockPublisher := &mocks.Publisher{}

		pub := publishers.NewRecurringPublisher(mockService, mockPublisher, "donation.charge", 100, logger)

		mockService.On("FindChargesToQueue", mock.Anything, 100).
			Return([]service.ChargeSubscriptionCommand(nil), nil)

		err := pub.Publish(context.Background())

		require.NoError(t, err)
		mockPublisher.AssertNotCalled(t, "Publish")
	})

	t.Run("scan failure is returned", func(t *testing.T) {
		mockService := &mocks.BillingQueueService{}
		mockPublisher := &mocks.Publisher{}

		pub := publishers.NewRecurringPublisher(mockService, mockPublisher, "donation.charge", 100, logger)

		scanErr := errors.New("database connection failed")
		mockService.On("FindChargesToQueue", mock.Anything, 100).
			Return([]service.ChargeSubscriptionCommand(nil), scanErr)

		err := pub.Publish(context.Background())

		assert.Equal(t, scanErr, err)
		mockPublisher.AssertNotCalled(t, "Publish")
	})

	t.Run("keeps publishing after a broker failure", func(t *testing.T) {
		mockService := &mocks.BillingQueueService{}
		mockPublisher := &mocks.Publisher{}

		pub := publishers.NewRecurringPublisher(mockService, mockPublisher, "donation.charge", 100, logger)

		mockService.On("FindChargesToQueue", mock.Anything, 100).Return(commands, nil)
		mockPublisher.On("Publish", mock.Anything, "", "donation.charge", chargeBodyWithUUID("uuid-1")).
			Return(errors.New("channel closed"))
		mockPublisher.On("Publish", mock.Anything, "", "donation.charge", chargeBodyWithUUID("uuid-2")).Return(nil)

		err := pub.Publish(context.Background())

		require.NoError(t, err)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("defaults the batch size", func(t *testing.T) {
		mockService := &mocks.BillingQueueService{}
		mockPublisher := &mocks.Publisher{}

		pub := publishers.NewRecurringPublisher(mockService, mockPublisher, "donation.charge", 0, logger)

		mockService.On("FindChargesToQueue", mock.Anything, 100).
			Return([]service.ChargeSubscriptionCommand(nil), nil)

		err := pub.Publish(context.Background())

		require.NoError(t, err)
		mockService.AssertCalled(t, "FindChargesToQueue", mock.Anything, 100)
	})
}
