package model

import "time"

// Ramadan template types.
const (
	RamadanTemplateEarly = "early"
	RamadanTemplateLate  = "late"
	RamadanTemplateSplit = "split"
)

// RamadanSchedule is a yearly alternate-hours template, one per owner per
// year. The period bounds are stored explicitly since the engine does not
// compute the Hijri calendar.
type RamadanSchedule struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID           string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Year              int       `json:"year" bson:"year" validate:"required,min=2020,max=2100"`
	TemplateType      string    `json:"template_type" bson:"template_type" validate:"required,oneof=early late split"`
	StartDate         string    `json:"start_date" bson:"start_date" validate:"required,calendar_date"`
	EndDate           string    `json:"end_date" bson:"end_date" validate:"required,calendar_date"`
	EarlyShiftStart   string    `json:"early_shift_start,omitempty" bson:"early_shift_start,omitempty" validate:"omitempty,clock"`
	EarlyShiftEnd     string    `json:"early_shift_end,omitempty" bson:"early_shift_end,omitempty" validate:"omitempty,clock"`
	LateShiftStart    string    `json:"late_shift_start,omitempty" bson:"late_shift_start,omitempty" validate:"omitempty,clock"`
	LateShiftEnd      string    `json:"late_shift_end,omitempty" bson:"late_shift_end,omitempty" validate:"omitempty,clock"`
	IftarBreakMinutes int       `json:"iftar_break_minutes" bson:"iftar_break_minutes" validate:"omitempty,min=0,max=240"`
	AutoAdjustMaghrib bool      `json:"auto_adjust_maghrib" bson:"auto_adjust_maghrib"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Covers reports whether the given calendar date (YYYY-MM-DD) falls inside
// the Ramadan period. Lexicographic comparison is safe for ISO dates.
func (r *RamadanSchedule) Covers(date string) bool {
	return r.StartDate <= date && date <= r.EndDate
}
