package paygate

import "errors"

const (
	StatusOK                  = 200
	StatusPaymentRequired     = 402
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusUnprocessableEntity = 422
	StatusTooManyRequests     = 429
)

const (
	ErrCodeCardDeclined     = "CARD_DECLINED"
	ErrCodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	ErrCodeDuplicateCharge  = "DUPLICATE_CHARGE"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrCardDeclined     = errors.New(ErrCodeCardDeclined)
	ErrAccountNotFound  = errors.New(ErrCodeAccountNotFound)
	ErrDuplicateCharge  = errors.New(ErrCodeDuplicateCharge)
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrRateLimited      = errors.New(ErrCodeRateLimited)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusPaymentRequired:     ErrCardDeclined,
	StatusNotFound:            ErrAccountNotFound,
	StatusConflict:            ErrDuplicateCharge,
	StatusUnprocessableEntity: ErrValidationFailed,
	StatusTooManyRequests:     ErrRateLimited,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsRetryable reports whether the failure is transient and the charge may be
// attempted again without risking a double payment.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerError)
}
