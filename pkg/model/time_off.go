package model

import "time"

// TimeOff is a date-range unavailability override, independent of any
// working schedule. With BlockBookings set its interval is always removed
// from availability, whatever the resolved schedule says.
type TimeOff struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID       string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	EmployeeID    string    `json:"employee_id,omitempty" bson:"employee_id,omitempty" validate:"omitempty,mongodb"`
	StartDate     string    `json:"start_date" bson:"start_date" validate:"required,calendar_date"`
	EndDate       string    `json:"end_date" bson:"end_date" validate:"required,calendar_date"`
	StartTime     string    `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime       string    `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,clock"`
	BlockBookings bool      `json:"block_bookings" bson:"block_bookings"`
	IsRecurring   bool      `json:"is_recurring" bson:"is_recurring"`
	Reason        string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IsFullDay reports whether the time-off covers whole days rather than a
// clock window within each day.
func (t *TimeOff) IsFullDay() bool {
	return t.StartTime == "" || t.EndTime == ""
}

// SpecialDateOverride is a one-off exception for a single calendar date. It
// supersedes the resolved recurring schedule for that date only: either the
// day is closed entirely, or explicit hours replace the schedule's shifts.
type SpecialDateOverride struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	EmployeeID  string    `json:"employee_id,omitempty" bson:"employee_id,omitempty" validate:"omitempty,mongodb"`
	Date        string    `json:"date" bson:"date" validate:"required,calendar_date"`
	IsAvailable bool      `json:"is_available" bson:"is_available"`
	StartsAt    string    `json:"starts_at,omitempty" bson:"starts_at,omitempty" validate:"omitempty,clock"`
	EndsAt      string    `json:"ends_at,omitempty" bson:"ends_at,omitempty" validate:"omitempty,clock"`
	Reason      string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// HasExplicitHours reports whether the override replaces the day's shifts
// with its own window instead of closing the day.
func (o *SpecialDateOverride) HasExplicitHours() bool {
	return o.IsAvailable && o.StartsAt != "" && o.EndsAt != ""
}
