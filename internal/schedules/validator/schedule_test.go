package validator

import (
	"testing"

	"lamsa/pkg/logger"
	"lamsa/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validSchedule() *model.WorkingSchedule {
	return &model.WorkingSchedule{
		OwnerID:        "507f1f77bcf86cd799439011",
		Name:           "Standard Hours",
		IsActive:       true,
		Priority:       10,
		RecurrenceRule: model.RecurrenceNone,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 0, StartTime: "09:00", EndTime: "18:00", ShiftType: model.ShiftRegular},
		},
	}
}

func TestValidateSchedule(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(s *model.WorkingSchedule)
		wantError bool
	}{
		{
			name:      "valid schedule",
			mutate:    func(s *model.WorkingSchedule) {},
			wantError: false,
		},
		{
			name: "missing owner",
			mutate: func(s *model.WorkingSchedule) {
				s.OwnerID = ""
			},
			wantError: true,
		},
		{
			name: "invalid recurrence rule",
			mutate: func(s *model.WorkingSchedule) {
				s.RecurrenceRule = "weekly"
			},
			wantError: true,
		},
		{
			name: "no shifts",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts = nil
			},
			wantError: true,
		},
		{
			name: "shift end before start",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts[0].StartTime = "18:00"
				s.Shifts[0].EndTime = "09:00"
			},
			wantError: true,
		},
		{
			name: "shift with zero length",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts[0].StartTime = "09:00"
				s.Shifts[0].EndTime = "09:00"
			},
			wantError: true,
		},
		{
			name: "malformed clock time",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts[0].StartTime = "9am"
			},
			wantError: true,
		},
		{
			name: "hour out of range",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts[0].EndTime = "25:00"
			},
			wantError: true,
		},
		{
			name: "day of week out of range",
			mutate: func(s *model.WorkingSchedule) {
				s.Shifts[0].DayOfWeek = 7
			},
			wantError: true,
		},
		{
			name: "effective window inverted",
			mutate: func(s *model.WorkingSchedule) {
				s.EffectiveFrom = "2026-06-01"
				s.EffectiveTo = "2026-05-01"
			},
			wantError: true,
		},
		{
			name: "valid effective window",
			mutate: func(s *model.WorkingSchedule) {
				s.EffectiveFrom = "2026-05-01"
				s.EffectiveTo = "2026-06-01"
			},
			wantError: false,
		},
		{
			name: "malformed effective date",
			mutate: func(s *model.WorkingSchedule) {
				s.EffectiveFrom = "01/05/2026"
			},
			wantError: true,
		},
		{
			name: "valid fixed break",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "lunch", StartTime: "12:00", EndTime: "13:00"},
				}
			},
			wantError: false,
		},
		{
			name: "fixed break without window",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "lunch"},
				}
			},
			wantError: true,
		},
		{
			name: "valid dynamic break",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "prayer", IsDynamic: true, PrayerName: model.PrayerDhuhr, DurationMinutes: 20},
				}
			},
			wantError: false,
		},
		{
			name: "dynamic break without prayer name",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "prayer", IsDynamic: true, DurationMinutes: 20},
				}
			},
			wantError: true,
		},
		{
			name: "dynamic break without duration",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "prayer", IsDynamic: true, PrayerName: model.PrayerAsr},
				}
			},
			wantError: true,
		},
		{
			name: "unknown prayer name",
			mutate: func(s *model.WorkingSchedule) {
				s.Breaks = []model.ScheduleBreak{
					{DayOfWeek: 0, BreakType: "prayer", IsDynamic: true, PrayerName: "sunrise", DurationMinutes: 20},
				}
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			err := v.Validate(s)
			if tt.wantError && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateTimeOff(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	tests := []struct {
		name      string
		timeOff   model.TimeOff
		wantError bool
	}{
		{
			name: "full day range",
			timeOff: model.TimeOff{
				OwnerID:       "507f1f77bcf86cd799439011",
				StartDate:     "2026-09-10",
				EndDate:       "2026-09-12",
				BlockBookings: true,
			},
			wantError: false,
		},
		{
			name: "partial day window",
			timeOff: model.TimeOff{
				OwnerID:   "507f1f77bcf86cd799439011",
				StartDate: "2026-09-10",
				EndDate:   "2026-09-10",
				StartTime: "14:00",
				EndTime:   "16:00",
			},
			wantError: false,
		},
		{
			name: "inverted date range",
			timeOff: model.TimeOff{
				OwnerID:   "507f1f77bcf86cd799439011",
				StartDate: "2026-09-12",
				EndDate:   "2026-09-10",
			},
			wantError: true,
		},
		{
			name: "start time without end time",
			timeOff: model.TimeOff{
				OwnerID:   "507f1f77bcf86cd799439011",
				StartDate: "2026-09-10",
				EndDate:   "2026-09-10",
				StartTime: "14:00",
			},
			wantError: true,
		},
		{
			name: "inverted clock window",
			timeOff: model.TimeOff{
				OwnerID:   "507f1f77bcf86cd799439011",
				StartDate: "2026-09-10",
				EndDate:   "2026-09-10",
				StartTime: "16:00",
				EndTime:   "14:00",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTimeOff(&tt.timeOff)
			if tt.wantError && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateRamadan(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	base := model.RamadanSchedule{
		OwnerID:         "507f1f77bcf86cd799439011",
		Year:            2026,
		TemplateType:    model.RamadanTemplateEarly,
		StartDate:       "2026-02-18",
		EndDate:         "2026-03-19",
		EarlyShiftStart: "10:00",
		EarlyShiftEnd:   "16:00",
	}

	t.Run("valid early template", func(t *testing.T) {
		s := base
		if err := v.ValidateRamadan(&s); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("early template missing window", func(t *testing.T) {
		s := base
		s.EarlyShiftStart = ""
		s.EarlyShiftEnd = ""
		if err := v.ValidateRamadan(&s); err == nil {
			t.Errorf("expected validation error, got nil")
		}
	})

	t.Run("split template requires both windows", func(t *testing.T) {
		s := base
		s.TemplateType = model.RamadanTemplateSplit
		if err := v.ValidateRamadan(&s); err == nil {
			t.Errorf("expected validation error, got nil")
		}
		s.LateShiftStart = "20:30"
		s.LateShiftEnd = "23:30"
		if err := v.ValidateRamadan(&s); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("inverted period", func(t *testing.T) {
		s := base
		s.StartDate = "2026-03-19"
		s.EndDate = "2026-02-18"
		if err := v.ValidateRamadan(&s); err == nil {
			t.Errorf("expected validation error, got nil")
		}
	})
}

func TestValidateSettings(t *testing.T) {
	v := NewScheduleValidator(testLogger())

	t.Run("prayer breaks require city", func(t *testing.T) {
		s := model.AvailabilitySettings{
			OwnerID:               "507f1f77bcf86cd799439011",
			EnablePrayerBreaks:    true,
			MaxAdvanceBookingDays: 60,
		}
		if err := v.ValidateSettings(&s); err == nil {
			t.Errorf("expected validation error, got nil")
		}
		s.City = "riyadh"
		if err := v.ValidateSettings(&s); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("women only window must be paired", func(t *testing.T) {
		s := model.AvailabilitySettings{
			OwnerID:               "507f1f77bcf86cd799439011",
			MaxAdvanceBookingDays: 60,
			WomenOnlyEnabled:      true,
			WomenOnlyStart:        "10:00",
		}
		if err := v.ValidateSettings(&s); err == nil {
			t.Errorf("expected validation error, got nil")
		}
	})
}
