// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var cpfRegex = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cpf", validateCPF)
		_ = v.RegisterValidation("coupon_type", validateCouponType)
		_ = v.RegisterValidation("order_status", validateOrderStatus)
		_ = v.RegisterValidation("exchange_status", validateExchangeStatus)
		_ = v.RegisterValidation("status_change_category", validateStatusChangeCategory)
	}
}

func validateCPF(fl validator.FieldLevel) bool {
	return cpfRegex.MatchString(fl.Field().String())
}

func validateCouponType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "promotional", "exchange":
		return true
	}
	return false
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "processing", "approved", "rejected", "in_transit", "delivered", "in_exchange", "exchanged":
		return true
	}
	return false
}

func validateExchangeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "requested", "authorized", "denied", "completed":
		return true
	}
	return false
}

func validateStatusChangeCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "manual", "out_of_market":
		return true
	}
	return false
}
