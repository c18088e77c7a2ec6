package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"lamsa/pkg/interval"
	"lamsa/pkg/logger"
	"lamsa/pkg/model"
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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock", validateClock); err != nil {
		log.Fatal("Failed to register 'clock' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := interval.ParseClock(fl.Field().String())
	return err == nil
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if _, err := interval.ParseClockRange(booking.StartTime, booking.EndTime); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = "this field is required"
		case "mongodb":
			message = "must be a valid object ID"
		case "clock":
			message = "must be a valid time in HH:MM format"
		case "calendar_date":
			message = "must be a valid date in YYYY-MM-DD format"
		case "oneof":
			message = fmt.Sprintf("must be one of: %s", err.Param())
		case "min":
			message = fmt.Sprintf("must be at least %s characters", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s characters", err.Param())
		default:
			message = fmt.Sprintf("failed validation: %s", err.Tag())
		}
		out = append(out, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}
	return out
}
