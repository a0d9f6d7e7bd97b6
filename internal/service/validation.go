package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MinimumAmounts holds the smallest accepted donation per currency. Values
// below the minimum are rejected before anything touches the database.
var MinimumAmounts = map[model.Currency]decimal.Decimal{
	model.CurrencyKGS: decimal.NewFromInt(10),
	model.CurrencyUSD: decimal.NewFromInt(1),
	model.CurrencyEUR: decimal.NewFromInt(1),
	model.CurrencyRUB: decimal.NewFromInt(50),
}

var donationTypes = map[model.DonationType]bool{
	model.DonationTypeOneTime:   true,
	model.DonationTypeMonthly:   true,
	model.DonationTypeQuarterly: true,
	model.DonationTypeYearly:    true,
}

var paymentMethods = map[string]bool{
	model.PaymentMethodBankCard:      true,
	model.PaymentMethodBankTransfer:  true,
	model.PaymentMethodMobilePayment: true,
}

// ValidationErrors indexes every failed rule by field name so the API can
// return them all at once instead of one per round trip.
type ValidationErrors struct {
	Fields map[string][]string
}

func (e ValidationErrors) Error() string {
	return "donation validation failed"
}

func (e *ValidationErrors) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationErrors) empty() bool {
	return len(e.Fields) == 0
}

// DonationInput is the cleaned form of a create command: parsed amount and
// typed enums, with email lowercased and the phone reduced to digits.
type DonationInput struct {
	Amount        decimal.Decimal
	Currency      model.Currency
	DonationType  model.DonationType
	PaymentMethod string
	DonorEmail    string
	DonorPhone    string
	DonorFullName string
	DonorComment  string
	ConsentText   string
}

type DonationValidator interface {
	ValidateDonation(cmd CreateDonationCommand) (*DonationInput, error)
}

type donationValidator struct {
	validate *validator.Validate
}

func NewDonationValidator() DonationValidator {
	return &donationValidator{validate: validator.New()}
}

func (v *donationValidator) ValidateDonation(cmd CreateDonationCommand) (*DonationInput, error) {
	var verrs ValidationErrors

	rawCurrency := strings.ToUpper(strings.TrimSpace(cmd.Currency))
	if rawCurrency == "" {
		rawCurrency = string(model.CurrencyKGS)
	}
	currency := model.Currency(rawCurrency)
	minimum, knownCurrency := MinimumAmounts[currency]
	if !knownCurrency {
		verrs.add("currency", "unsupported currency")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(cmd.Amount))
	switch {
	case err != nil:
		verrs.add("amount", "invalid amount")
	case amount.Exponent() < -2:
		verrs.add("amount", "amount supports at most two decimal places")
	case !amount.IsPositive():
		verrs.add("amount", "amount must be positive")
	case knownCurrency && amount.LessThan(minimum):
		verrs.add("amount", fmt.Sprintf("minimum donation amount is %s %s", minimum.String(), currency))
	}

	donationType := model.DonationType(strings.TrimSpace(cmd.DonationType))
	if !donationTypes[donationType] {
		verrs.add("donation_type", "unsupported donation type")
	} else if donationType.IsRecurring() && cmd.UserID == nil {
		verrs.add("donation_type", AuthRequiredError{Frequency: donationType}.Error())
	}

	paymentMethod := strings.TrimSpace(cmd.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.PaymentMethodBankCard
	}
	if !paymentMethods[paymentMethod] {
		verrs.add("payment_method", "unsupported payment method")
	}

	email := strings.ToLower(strings.TrimSpace(cmd.DonorEmail))
	if err := v.validate.Var(email, "required,email"); err != nil {
		verrs.add("donor_email", "invalid email address")
	}

	fullName := strings.TrimSpace(cmd.DonorFullName)
	if fullName == "" {
		verrs.add("donor_full_name", "full name is required")
	} else if utf8.RuneCountInString(fullName) < 2 {
		verrs.add("donor_full_name", "full name must be at least 2 characters")
	}

	phone, phoneOK := NormalizePhone(cmd.DonorPhone)
	if !phoneOK {
		verrs.add("donor_phone", "phone number must contain at least 10 digits")
	}

	if !cmd.ConsentAccepted {
		verrs.add("consent_accepted", "terms must be accepted")
	}

	if !verrs.empty() {
		return nil, NewServiceError(constants.ErrCodeValidationFailed, verrs)
	}

	return &DonationInput{
		Amount:        amount,
		Currency:      currency,
		DonationType:  donationType,
		PaymentMethod: paymentMethod,
		DonorEmail:    email,
		DonorPhone:    phone,
		DonorFullName: fullName,
		DonorComment:  strings.TrimSpace(cmd.DonorComment),
		ConsentText:   strings.TrimSpace(cmd.ConsentText),
	}, nil
}

// NormalizePhone strips formatting characters (spaces, hyphens, parentheses)
// and a leading plus, keeping digits only. The result must be 10 to 20 digits.
func NormalizePhone(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "+")

	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			continue
		default:
			return "", false
		}
	}

	digits := b.String()
	if len(digits) < 10 || len(digits) > 20 {
		return "", false
	}

	return digits, true
}
