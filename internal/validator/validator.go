// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sampatti/internal/models"
)

var languageCodeRegex = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// validCurrencies contains the ISO 4217 codes accepted on assets.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "CAD": true, "CHF": true, "CNY": true,
	"EUR": true, "GBP": true, "HKD": true, "INR": true, "JPY": true,
	"LKR": true, "MYR": true, "NPR": true, "NZD": true, "SGD": true,
	"THB": true, "USD": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("language_code", validateLanguageCode)
		_ = v.RegisterValidation("access_level", validateAccessLevel)
		_ = v.RegisterValidation("nominee_status", validateNomineeStatus)
		_ = v.RegisterValidation("user_status", validateUserStatus)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateLanguageCode(fl validator.FieldLevel) bool {
	return languageCodeRegex.MatchString(fl.Field().String())
}

func validateAccessLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.AccessLevelFull, models.AccessLevelLimited, models.AccessLevelDocumentsOnly:
		return true
	}
	return false
}

func validateNomineeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.NomineeStatusPending, models.NomineeStatusActive, models.NomineeStatusRevoked:
		return true
	}
	return false
}

func validateUserStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.StatusActive, models.StatusSuspended, models.StatusInactive:
		return true
	}
	return false
}
