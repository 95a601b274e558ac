package validator

import (
	"errors"
	"fmt"
	"strings"

	"lumina/pkg/logger"
	"lumina/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookingValidator checks bookings before they reach the store. The
// remote variant additionally requires an identity, since its bookings
// are keyed per user.
type BookingValidator struct {
	validate        *validator.Validate
	requireIdentity bool
	logger          *logger.Logger
}

func NewBookingValidator(requireIdentity bool, log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate:        validator.New(),
		requireIdentity: requireIdentity,
		logger:          log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if v.requireIdentity && booking.Identity == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "Identity",
				Message: "identity is required for shared bookings",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a calendar day in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
