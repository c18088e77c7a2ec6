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

type ScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock", validateClock); err != nil {
		log.Fatal("Failed to register 'clock' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Schedule validator initialized successfully")

	return &ScheduleValidator{
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

func (v *ScheduleValidator) Validate(schedule *model.WorkingSchedule) error {
	if err := v.validate.Struct(schedule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if schedule.EffectiveFrom != "" && schedule.EffectiveTo != "" && schedule.EffectiveTo < schedule.EffectiveFrom {
		return ValidationErrors{
			ValidationError{
				Field:   "EffectiveTo",
				Message: "effective_to must not be before effective_from",
			},
		}
	}

	for i, shift := range schedule.Shifts {
		if _, err := interval.ParseClockRange(shift.StartTime, shift.EndTime); err != nil {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("Shifts[%d]", i),
					Message: "end_time must be after start_time",
				},
			}
		}
	}

	for i, brk := range schedule.Breaks {
		if err := validateBreak(i, brk); err != nil {
			return err
		}
	}

	return nil
}

// validateBreak enforces the two break shapes: a fixed break carries a clock
// window, a dynamic break carries a prayer anchor and a duration.
func validateBreak(i int, brk model.ScheduleBreak) error {
	if brk.IsDynamic {
		if brk.PrayerName == "" {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("Breaks[%d].PrayerName", i),
					Message: "prayer_name is required for a dynamic break",
				},
			}
		}
		if brk.DurationMinutes <= 0 {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("Breaks[%d].DurationMinutes", i),
					Message: "duration_minutes must be positive for a dynamic break",
				},
			}
		}
		return nil
	}

	if _, err := interval.ParseClockRange(brk.StartTime, brk.EndTime); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   fmt.Sprintf("Breaks[%d]", i),
				Message: "a fixed break requires start_time and end_time with end_time after start_time",
			},
		}
	}
	return nil
}

func (v *ScheduleValidator) ValidateUpdate(update *model.WorkingScheduleUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Shifts != nil {
		for i, shift := range *update.Shifts {
			if _, err := interval.ParseClockRange(shift.StartTime, shift.EndTime); err != nil {
				return ValidationErrors{
					ValidationError{
						Field:   fmt.Sprintf("Shifts[%d]", i),
						Message: "end_time must be after start_time",
					},
				}
			}
		}
	}

	if update.Breaks != nil {
		for i, brk := range *update.Breaks {
			if err := validateBreak(i, brk); err != nil {
				return err
			}
		}
	}

	return nil
}

func (v *ScheduleValidator) ValidateTimeOff(timeOff *model.TimeOff) error {
	if err := v.validate.Struct(timeOff); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if timeOff.EndDate < timeOff.StartDate {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not be before start_date",
			},
		}
	}

	// Partial-day time off needs both ends of the clock window.
	if (timeOff.StartTime == "") != (timeOff.EndTime == "") {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "start_time and end_time must be set together",
			},
		}
	}
	if timeOff.StartTime != "" {
		if _, err := interval.ParseClockRange(timeOff.StartTime, timeOff.EndTime); err != nil {
			return ValidationErrors{
				ValidationError{
					Field:   "EndTime",
					Message: "end_time must be after start_time",
				},
			}
		}
	}

	return nil
}

func (v *ScheduleValidator) ValidateSpecialDate(override *model.SpecialDateOverride) error {
	if err := v.validate.Struct(override); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if override.IsAvailable {
		if (override.StartsAt == "") != (override.EndsAt == "") {
			return ValidationErrors{
				ValidationError{
					Field:   "EndsAt",
					Message: "starts_at and ends_at must be set together",
				},
			}
		}
		if override.StartsAt != "" {
			if _, err := interval.ParseClockRange(override.StartsAt, override.EndsAt); err != nil {
				return ValidationErrors{
					ValidationError{
						Field:   "EndsAt",
						Message: "ends_at must be after starts_at",
					},
				}
			}
		}
	}

	return nil
}

func (v *ScheduleValidator) ValidateRamadan(schedule *model.RamadanSchedule) error {
	if err := v.validate.Struct(schedule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if schedule.EndDate < schedule.StartDate {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not be before start_date",
			},
		}
	}

	hasEarly := schedule.EarlyShiftStart != "" && schedule.EarlyShiftEnd != ""
	hasLate := schedule.LateShiftStart != "" && schedule.LateShiftEnd != ""

	switch schedule.TemplateType {
	case model.RamadanTemplateEarly:
		if !hasEarly {
			return ValidationErrors{
				ValidationError{
					Field:   "EarlyShiftStart",
					Message: "early template requires early_shift_start and early_shift_end",
				},
			}
		}
	case model.RamadanTemplateLate:
		if !hasLate {
			return ValidationErrors{
				ValidationError{
					Field:   "LateShiftStart",
					Message: "late template requires late_shift_start and late_shift_end",
				},
			}
		}
	case model.RamadanTemplateSplit:
		if !hasEarly || !hasLate {
			return ValidationErrors{
				ValidationError{
					Field:   "TemplateType",
					Message: "split template requires both early and late shift windows",
				},
			}
		}
	}

	return nil
}

func (v *ScheduleValidator) ValidateSettings(settings *model.AvailabilitySettings) error {
	if err := v.validate.Struct(settings); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if settings.EnablePrayerBreaks && settings.City == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "City",
				Message: "city is required when prayer breaks are enabled",
			},
		}
	}

	if settings.WomenOnlyEnabled && (settings.WomenOnlyStart == "") != (settings.WomenOnlyEnd == "") {
		return ValidationErrors{
			ValidationError{
				Field:   "WomenOnlyEnd",
				Message: "women_only_start and women_only_end must be set together",
			},
		}
	}

	return nil
}

func (v *ScheduleValidator) ValidatePrayerTimes(times *model.PrayerTimes) error {
	if err := v.validate.Struct(times); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ScheduleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "clock":
			message = fmt.Sprintf("%s must be a valid HH:MM time", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a valid YYYY-MM-DD date", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
