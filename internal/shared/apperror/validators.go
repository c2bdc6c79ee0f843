package apperror

import (
	"github.com/go-playground/validator/v10"

	"worksphere/internal/shared/period"
)

// RegisterCustomValidations adds the `month` tag, which accepts the twelve
// English month names used for payroll periods.
func RegisterCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return period.IsValidMonth(fl.Field().String())
	})
}
