package paygate_test

import (
	"errors"
	"testing"

	"github.com/SANJIKS/sos-backend-sub001/pkg/paygate"
	"github.com/stretchr/testify/assert"
)

func TestMapStatusToError(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		expectedError error
	}{
		{
			name:          "PaymentRequired",
			statusCode:    402,
			expectedError: paygate.ErrCardDeclined,
		},
		{
			name:          "NotFound",
			statusCode:    404,
			expectedError: paygate.ErrAccountNotFound,
		},
		{
			name:          "Conflict",
			statusCode:    409,
			expectedError: paygate.ErrDuplicateCharge,
		},
		{
			name:          "UnprocessableEntity",
			statusCode:    422,
			expectedError: paygate.ErrValidationFailed,
		},
		{
			name:          "TooManyRequests",
			statusCode:    429,
			expectedError: paygate.ErrRateLimited,
		},
		{
			name:          "InternalServerError",
			statusCode:    500,
			expectedError: paygate.ErrServerError,
		},
		{
			name:          "BadGateway",
			statusCode:    502,
			expectedError: paygate.ErrServerError,
		},
		{
			name:          "BadRequest",
			statusCode:    400,
			expectedError: paygate.ErrServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := paygate.MapStatusToError(tc.statusCode)

			assert.Error(t, err, "Expected an error for status code %d", tc.statusCode)
			assert.Equal(t, tc.expectedError, err)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "Timeout", err: paygate.ErrTimeout, retryable: true},
		{name: "RateLimited", err: paygate.ErrRateLimited, retryable: true},
		{name: "ServerError", err: paygate.ErrServerError, retryable: true},
		{name: "CardDeclined", err: paygate.ErrCardDeclined, retryable: false},
		{name: "DuplicateCharge", err: paygate.ErrDuplicateCharge, retryable: false},
		{name: "ValidationFailed", err: paygate.ErrValidationFailed, retryable: false},
		{name: "AccountNotFound", err: paygate.ErrAccountNotFound, retryable: false},
		{name: "Unrelated", err: errors.New("boom"), retryable: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, paygate.IsRetryable(tc.err))
		})
	}
}
