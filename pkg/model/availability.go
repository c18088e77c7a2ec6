package model

// Unavailability and conflict reasons returned by the availability engine.
// These are result values, not errors.
const (
	ReasonNoSchedule            = "no_schedule"
	ReasonNotAWorkingDay        = "not_a_working_day"
	ReasonSpecialDateOff        = "special_date_off"
	ReasonOutsideBookingWindow  = "outside_booking_window"
	ReasonOutsideWorkingHours   = "outside_working_hours"
	ReasonBreakConflict         = "break_conflict"
	ReasonTimeOff               = "time_off"
	ReasonBookingConflict       = "booking_conflict"
	ReasonShiftCapacityExceeded = "shift_capacity_exceeded"
	ReasonPrayerTimesMissing    = "prayer_times_missing"
)

// ShiftWindow is one resolved working window for a concrete date.
type ShiftWindow struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ShiftType   string `json:"shift_type"`
	MaxBookings int    `json:"max_bookings,omitempty"`
}

// DayScheduleResult is the outcome of resolving which working windows apply
// to an owner (or staff member) on one date. Unavailability is a legitimate
// state, not an error.
type DayScheduleResult struct {
	Date       string        `json:"date"`
	Available  bool          `json:"available"`
	Reason     string        `json:"reason,omitempty"`
	ScheduleID string        `json:"schedule_id,omitempty"`
	Windows    []ShiftWindow `json:"windows,omitempty"`
}

// TimeSlot is one bookable window offered to a customer.
type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	ShiftType string `json:"shift_type"`
	WomenOnly bool   `json:"women_only,omitempty"`
}

// SlotsResult is the outcome of computing bookable slots for a date. An
// empty slot list carries the reason when the whole day is unavailable.
type SlotsResult struct {
	Date   string     `json:"date"`
	Slots  []TimeSlot `json:"slots"`
	Reason string     `json:"reason,omitempty"`
}

// AvailabilityCheckResult is the advisory answer for one candidate booking
// range. When unavailable it carries the nearest alternative slots sorted by
// distance from the requested start.
type AvailabilityCheckResult struct {
	Available        bool       `json:"available"`
	Reason           string     `json:"reason,omitempty"`
	AlternativeSlots []TimeSlot `json:"alternative_slots,omitempty"`
}
