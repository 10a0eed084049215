package utils

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom tag values are duplicated from model/usecase to keep utils free of
// domain imports.
var (
	deleteTypes    = []string{"current", "current-and-future", "all"}
	subtaskStates  = []string{"Backlog", "In Progress", "In Review", "Done"}
	settingTypes   = []string{"open", "close", "limit", "block"}
	weekdayNames   = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	monthNames     = []string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"}
	habitFrequency = []string{"daily", "weekly"}
)

// RegisterCustomValidators installs the project's validation tags on v.
func RegisterCustomValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"password":       ValidatePasswordRule,
		"deletetype":     oneOfRule(deleteTypes, true),
		"subtaskstatus":  oneOfRule(subtaskStates, false),
		"settingtype":    oneOfRule(settingTypes, false),
		"weekday":        oneOfRule(weekdayNames, false),
		"month":          oneOfRule(monthNames, false),
		"habitfrequency": oneOfRule(habitFrequency, true),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// InitValidator registers the custom tags on gin's binding engine.
func InitValidator() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterCustomValidators(v)
	}
	return nil
}

func oneOfRule(allowed []string, allowEmpty bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return allowEmpty
		}
		for _, a := range allowed {
			if s == a {
				return true
			}
		}
		return false
	}
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// ValidatePassword requires at least 6 characters with one digit and one
// punctuation or symbol character.
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	hasNumber := false
	hasSpecial := false
	for _, char := range password {
		switch {
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasNumber && hasSpecial
}
