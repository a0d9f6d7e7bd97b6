package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeAuthRequired         = "AUTH_REQUIRED_FOR_SUBSCRIPTION"
	ErrCodePermissionDenied     = "PERMISSION_DENIED"
	ErrCodeDonationNotFound     = "DONATION_NOT_FOUND"
	ErrCodeNotRecurring         = "NOT_RECURRING_DONATION"
	ErrCodeInvalidSubscription  = "INVALID_SUBSCRIPTION_STATE"
	ErrCodeTransactionProcessed = "TRANSACTION_ALREADY_PROCESSED"
	ErrCodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	ErrCodeOperationFailed      = "OPERATION_FAILED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed     = "donation validation failed"
	ErrMsgAuthRequired         = "authentication required for recurring donations"
	ErrMsgPermissionDenied     = "you do not have access to this donation"
	ErrMsgDonationNotFound     = "donation not found"
	ErrMsgNotRecurring         = "donation is not recurring"
	ErrMsgInvalidSubscription  = "subscription state does not allow this action"
	ErrMsgTransactionProcessed = "transaction already processed"
	ErrMsgInvalidRequestBody   = "failed to parse request body"
	ErrMsgOperationFailed      = "operation failed"
	ErrMsgInternalError        = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:     ErrMsgValidationFailed,
	ErrCodeAuthRequired:         ErrMsgAuthRequired,
	ErrCodePermissionDenied:     ErrMsgPermissionDenied,
	ErrCodeDonationNotFound:     ErrMsgDonationNotFound,
	ErrCodeNotRecurring:         ErrMsgNotRecurring,
	ErrCodeInvalidSubscription:  ErrMsgInvalidSubscription,
	ErrCodeTransactionProcessed: ErrMsgTransactionProcessed,
	ErrCodeInvalidRequestBody:   ErrMsgInvalidRequestBody,
	ErrCodeOperationFailed:      ErrMsgOperationFailed,
	ErrCodeInternalError:        ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeNotRecurring:
		return 400
	case ErrCodeAuthRequired, ErrCodePermissionDenied:
		return 403
	case ErrCodeDonationNotFound:
		return 404
	case ErrCodeInvalidSubscription, ErrCodeTransactionProcessed:
		return 409
	case ErrCodeValidationFailed:
		return 422
	default:
		return 500
	}
}
