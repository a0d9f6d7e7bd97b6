package service

import (
	"errors"
	"fmt"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
)

const ErrCodeDatabase = "DATABASE_ERROR"

var (
	ErrNotRecurring         = errors.New("NOT_RECURRING_DONATION")
	ErrInvalidTransition    = errors.New("INVALID_SUBSCRIPTION_STATE")
	ErrPermissionDenied     = errors.New("PERMISSION_DENIED")
	ErrAuthRequired         = errors.New("AUTH_REQUIRED_FOR_SUBSCRIPTION")
	ErrTransactionProcessed = errors.New("TRANSACTION_ALREADY_PROCESSED")
	ErrUnknownGatewayStatus = errors.New("UNKNOWN_GATEWAY_STATUS")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// AuthRequiredError rejects an anonymous subscription attempt. The message
// names the requested frequency so the donor knows which plan needs an
// account.
type AuthRequiredError struct {
	Frequency model.DonationType
}

func (e AuthRequiredError) Error() string {
	return fmt.Sprintf("sign in or register to set up a %s subscription", frequencyLabel(e.Frequency))
}

func (e AuthRequiredError) Is(target error) bool {
	return target == ErrAuthRequired
}

// StateError rejects a subscription transition, naming the state the
// subscription is actually in.
type StateError struct {
	Current model.SubscriptionStatus
	Action  string
}

func (e StateError) Error() string {
	return fmt.Sprintf("cannot %s a subscription that is %s", e.Action, e.Current)
}

func (e StateError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func frequencyLabel(t model.DonationType) string {
	switch t {
	case model.DonationTypeMonthly:
		return "monthly"
	case model.DonationTypeQuarterly:
		return "quarterly"
	case model.DonationTypeYearly:
		return "yearly"
	default:
		return "recurring"
	}
}
