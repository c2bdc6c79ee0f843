package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// bank_account_no -> Bank Account No
func formatFieldName(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func fieldMessage(e validator.FieldError) string {
	field := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "month":
		return field + " must be a month name such as January"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "gte", "min":
		return field + " is below the minimum of " + e.Param()
	case "lt", "lte", "max":
		return field + " is above the maximum of " + e.Param()
	default:
		return field + " is invalid"
	}
}

// ValidationDetails maps each failing json field to a readable message.
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := details[e.Field()]; !seen {
			details[e.Field()] = fieldMessage(e)
		}
	}
	return details
}

// MapValidationError reports the first failing field as an INVALID_INPUT
// AppError. Anything that is not a validator error becomes ErrInvalidInput.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ErrInvalidInput
	}
	if errs[0].Tag() == "required" {
		return RequiredField(formatFieldName(errs[0].Field()))
	}
	return New(CodeInvalidInput, fieldMessage(errs[0]), http.StatusBadRequest)
}
