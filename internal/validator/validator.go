package validator

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	ErrRequired      = "is required"
	ErrEmail         = "must be a valid email address"
	ErrMinValue      = "must be at least %s"
	ErrMaxValue      = "must be at most %s"
	ErrPassword      = "must be 8-25 characters long and include at least one uppercase letter, one lowercase letter, " +
		"one number, and one special character (!@#$%^&*)"
	ErrAmount        = "must be a non-negative amount with at most two decimal places"
	ErrPaymentMethod = "must be one of CASH, CARD, BANK_TRANSFER, ONLINE"
	ErrInvalid       = "is invalid"
)

var hasSpecialRgx = regexp.MustCompile(`[!@#$%^&*]`)

var paymentMethods = map[string]struct{}{
	"CASH":          {},
	"CARD":          {},
	"BANK_TRANSFER": {},
	"ONLINE":        {},
}

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("password", validatePassword)
	validator.RegisterValidation("amount", validateAmount)
	validator.RegisterValidation("payment_method", validatePaymentMethod)

	return validator
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 || len(password) > 25 {
		return false
	}

	containsUpper, containsLower, containsDigit, containsSpecial := false, false, false, false

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			containsUpper = true
		case unicode.IsLower(ch):
			containsLower = true
		case unicode.IsDigit(ch):
			containsDigit = true
		case hasSpecialRgx.MatchString(string(ch)):
			containsSpecial = true
		}
	}

	return containsUpper && containsLower && containsDigit && containsSpecial
}

// validateAmount accepts monetary amounts sent as strings, e.g. "50.00".
func validateAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return !amount.IsNegative() && amount.Exponent() >= -2
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, ok := paymentMethods[fl.Field().String()]
	return ok
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrEmail
	case "min":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "password":
		return ErrPassword
	case "amount":
		return ErrAmount
	case "payment_method":
		return ErrPaymentMethod
	default:
		return ErrInvalid
	}
}
