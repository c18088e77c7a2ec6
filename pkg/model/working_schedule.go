package model

import "time"

// Recurrence rules for a working schedule.
const (
	RecurrenceNone    = "none"
	RecurrenceYearly  = "yearly"
	RecurrenceRamadan = "ramadan"
)

// Shift types.
const (
	ShiftRegular   = "regular"
	ShiftWomenOnly = "women_only"
	ShiftVIP       = "vip"
)

// WorkingSchedule is a named recurring weekly template for a provider or an
// individual staff member. Schedules are deactivated, never deleted; newer
// schedules supersede older ones through Priority.
type WorkingSchedule struct {
	ID             string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID        string          `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	EmployeeID     string          `json:"employee_id,omitempty" bson:"employee_id,omitempty" validate:"omitempty,mongodb"`
	Name           string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	IsActive       bool            `json:"is_active" bson:"is_active"`
	Priority       int             `json:"priority" bson:"priority" validate:"min=0,max=100"`
	EffectiveFrom  string          `json:"effective_from,omitempty" bson:"effective_from,omitempty" validate:"omitempty,calendar_date"`
	EffectiveTo    string          `json:"effective_to,omitempty" bson:"effective_to,omitempty" validate:"omitempty,calendar_date"`
	RecurrenceRule string          `json:"recurrence_rule" bson:"recurrence_rule" validate:"required,oneof=none yearly ramadan"`
	Shifts         []ScheduleShift `json:"shifts" bson:"shifts" validate:"required,min=1,dive"`
	Breaks         []ScheduleBreak `json:"breaks,omitempty" bson:"breaks,omitempty" validate:"omitempty,dive"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ScheduleShift is one working window on a weekday. Day of week is
// 0=Sunday..6=Saturday.
type ScheduleShift struct {
	DayOfWeek   int    `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" bson:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"required,clock"`
	ShiftType   string `json:"shift_type" bson:"shift_type" validate:"required,oneof=regular women_only vip"`
	MaxBookings int    `json:"max_bookings,omitempty" bson:"max_bookings,omitempty" validate:"omitempty,min=1,max=500"`
}

// ScheduleBreak is a recurring non-bookable window inside a weekday. A break
// is either fixed (StartTime/EndTime) or dynamic, anchored to a named daily
// prayer time with a duration.
type ScheduleBreak struct {
	DayOfWeek          int    `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	BreakType          string `json:"break_type" bson:"break_type" validate:"required,min=2,max=50"`
	StartTime          string `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime            string `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,clock"`
	IsDynamic          bool   `json:"is_dynamic" bson:"is_dynamic"`
	PrayerName         string `json:"prayer_name,omitempty" bson:"prayer_name,omitempty" validate:"omitempty,oneof=fajr dhuhr asr maghrib isha"`
	DurationMinutes    int    `json:"duration_minutes,omitempty" bson:"duration_minutes,omitempty" validate:"omitempty,min=1,max=240"`
	IsFlexible         bool   `json:"is_flexible" bson:"is_flexible"`
	FlexibilityMinutes int    `json:"flexibility_minutes,omitempty" bson:"flexibility_minutes,omitempty" validate:"omitempty,min=0,max=120"`
}

// WorkingScheduleUpdate carries partial edits to a schedule.
type WorkingScheduleUpdate struct {
	Name           string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	IsActive       *bool            `json:"is_active,omitempty"`
	Priority       *int             `json:"priority,omitempty" validate:"omitempty,min=0,max=100"`
	EffectiveFrom  *string          `json:"effective_from,omitempty" validate:"omitempty,calendar_date"`
	EffectiveTo    *string          `json:"effective_to,omitempty" validate:"omitempty,calendar_date"`
	RecurrenceRule string           `json:"recurrence_rule,omitempty" validate:"omitempty,oneof=none yearly ramadan"`
	Shifts         *[]ScheduleShift `json:"shifts,omitempty" validate:"omitempty,min=1,dive"`
	Breaks         *[]ScheduleBreak `json:"breaks,omitempty" validate:"omitempty,dive"`
}
