package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	amountRegex = `^\d+(\.\d{1,2})?$`
)

const (
	AmountTag   = "amount"
	CurrencyTag = "currency"
)

var currencies = map[string]bool{
	"KGS": true,
	"USD": true,
	"EUR": true,
	"RUB": true,
}

var valid = map[string]func(fl validator.FieldLevel) bool{
	AmountTag:   ValidateAmount,
	CurrencyTag: ValidateCurrency,
}

func ValidateAmount(fl validator.FieldLevel) bool {
	amount := fl.Field().String()
	return regexp.MustCompile(amountRegex).MatchString(amount)
}

func ValidateCurrency(fl validator.FieldLevel) bool {
	return currencies[fl.Field().String()]
}
