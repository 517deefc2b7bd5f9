package handler

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxMessageLength = 5000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// maxrunes counts characters rather than bytes.
	_ = v.RegisterValidation("maxrunes", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= maxMessageLength
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validationCode turns the first failed rule into a snake_case error code
// such as "email_required" or "message_too_long".
func validationCode(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid_request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return field + "_required"
	case "email":
		return field + "_invalid"
	case "maxrunes", "max":
		return field + "_too_long"
	default:
		return field + "_invalid"
	}
}
