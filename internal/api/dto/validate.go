package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check runs struct validation and converts failures into the
// VALIDATION_FAILED error with per-field details.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
