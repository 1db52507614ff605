package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ratingMin = decimal.NewFromFloat(1.00)
var ratingMax = decimal.NewFromFloat(5.00)

// RegisterCustomValidations wires domain-specific validation tags into the
// gin binding validator. Must be called once at startup.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("userrating", validateUserRating)
}

// validateUserRating enforces the [1.00, 5.00] bound with at most two
// decimal places.
func validateUserRating(fl validator.FieldLevel) bool {
	rating, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	if rating.LessThan(ratingMin) || rating.GreaterThan(ratingMax) {
		return false
	}
	return rating.Exponent() >= -2
}
