package errors

import "errors"

var (
	ErrNotFound = errors.New("schedule not found")

	ErrInvalidID = errors.New("invalid schedule ID format")

	ErrSettingsNotFound = errors.New("availability settings not found")

	ErrPrayerTimesNotFound = errors.New("prayer times not found for city and date")
)
