package model

import "time"

// AvailabilitySettings are per-owner tunables applied by the availability
// engine. One document per owner; engine falls back to configured defaults
// when absent.
type AvailabilitySettings struct {
	OwnerID                      string    `json:"owner_id" bson:"_id" validate:"required,mongodb"`
	City                         string    `json:"city" bson:"city" validate:"omitempty,min=2,max=50"`
	CalculationMethod            string    `json:"calculation_method,omitempty" bson:"calculation_method,omitempty" validate:"omitempty,min=2,max=50"`
	TimeZone                     string    `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	PrepMinutes                  int       `json:"prep_minutes" bson:"prep_minutes" validate:"min=0,max=120"`
	CleanupMinutes               int       `json:"cleanup_minutes" bson:"cleanup_minutes" validate:"min=0,max=120"`
	BetweenAppointmentsMinutes   int       `json:"between_appointments_minutes" bson:"between_appointments_minutes" validate:"min=0,max=120"`
	SlotGranularityMinutes       int       `json:"slot_granularity_minutes" bson:"slot_granularity_minutes" validate:"omitempty,min=5,max=120"`
	EnablePrayerBreaks           bool      `json:"enable_prayer_breaks" bson:"enable_prayer_breaks"`
	PrayerTimeFlexibilityMinutes int       `json:"prayer_time_flexibility_minutes" bson:"prayer_time_flexibility_minutes" validate:"min=0,max=120"`
	AutoSwitchRamadanSchedule    bool      `json:"auto_switch_ramadan_schedule" bson:"auto_switch_ramadan_schedule"`
	MinAdvanceBookingHours       int       `json:"min_advance_booking_hours" bson:"min_advance_booking_hours" validate:"min=0,max=720"`
	MaxAdvanceBookingDays        int       `json:"max_advance_booking_days" bson:"max_advance_booking_days" validate:"min=1,max=365"`
	WomenOnlyEnabled             bool      `json:"women_only_enabled" bson:"women_only_enabled"`
	WomenOnlyDays                []int     `json:"women_only_days,omitempty" bson:"women_only_days,omitempty" validate:"omitempty,max=7,dive,min=0,max=6"`
	WomenOnlyStart               string    `json:"women_only_start,omitempty" bson:"women_only_start,omitempty" validate:"omitempty,clock"`
	WomenOnlyEnd                 string    `json:"women_only_end,omitempty" bson:"women_only_end,omitempty" validate:"omitempty,clock"`
	UpdatedAt                    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// IsWomenOnlyDay reports whether the weekday (0=Sunday..6=Saturday) is
// configured as a women-only day.
func (s *AvailabilitySettings) IsWomenOnlyDay(dayOfWeek int) bool {
	if !s.WomenOnlyEnabled {
		return false
	}
	for _, d := range s.WomenOnlyDays {
		if d == dayOfWeek {
			return true
		}
	}
	return false
}
