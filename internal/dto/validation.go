package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// validCurrencyCode accepts three uppercase letters, the shape of an ISO 4217
// code. It does not check against the currency table; the admin reviewing the
// top-up sees the raw value.
func validCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRe.MatchString(fl.Field().String())
}

// RegisterCustomValidators attaches request-level validation rules to gin's
// binding engine. Must be called once before the router starts serving.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", validCurrencyCode)
	}
}
