package service

import (
	"context"
	"testing"
	"time"

	"lamsa/pkg/model"
)

func TestResolveDay_PicksHighestPriority(t *testing.T) {
	f := newFixture()

	older := &model.WorkingSchedule{
		ID: "low", OwnerID: testOwner, IsActive: true, Priority: 1,
		RecurrenceRule: model.RecurrenceNone,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 2, StartTime: "08:00", EndTime: "12:00", ShiftType: model.ShiftRegular},
		},
	}
	newer := &model.WorkingSchedule{
		ID: "high", OwnerID: testOwner, IsActive: true, Priority: 9,
		RecurrenceRule: model.RecurrenceNone,
		CreatedAt:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", ShiftType: model.ShiftRegular},
		},
	}
	f.schedules.findActiveFunc = func(ctx context.Context, ownerID, employeeID string) ([]*model.WorkingSchedule, error) {
		return []*model.WorkingSchedule{older, newer}, nil
	}

	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available day, got reason %q", result.Reason)
	}
	if result.ScheduleID != "high" {
		t.Errorf("expected schedule %q, got %q", "high", result.ScheduleID)
	}
	if len(result.Windows) != 1 || result.Windows[0].StartTime != "09:00" {
		t.Errorf("unexpected windows: %+v", result.Windows)
	}
}

func TestResolveDay_NoSchedule(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable day")
	}
	if result.Reason != model.ReasonNoSchedule {
		t.Errorf("expected reason %q, got %q", model.ReasonNoSchedule, result.Reason)
	}
}

func TestResolveDay_NotAWorkingDay(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	// 2026-09-14 is a Monday; the schedule only covers Tuesday.
	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", "2026-09-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable day")
	}
	if result.Reason != model.ReasonNotAWorkingDay {
		t.Errorf("expected reason %q, got %q", model.ReasonNotAWorkingDay, result.Reason)
	}
}

func TestResolveDay_SpecialDateOff(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.specialDates.findByDateFunc = func(ctx context.Context, ownerID, employeeID, date string) (*model.SpecialDateOverride, error) {
		return &model.SpecialDateOverride{
			OwnerID: testOwner, Date: testDate, IsAvailable: false, Reason: "public holiday",
		}, nil
	}

	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected unavailable day")
	}
	if result.Reason != model.ReasonSpecialDateOff {
		t.Errorf("expected reason %q, got %q", model.ReasonSpecialDateOff, result.Reason)
	}
}

func TestResolveDay_SpecialDateExplicitHours(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.specialDates.findByDateFunc = func(ctx context.Context, ownerID, employeeID, date string) (*model.SpecialDateOverride, error) {
		return &model.SpecialDateOverride{
			OwnerID: testOwner, Date: testDate, IsAvailable: true,
			StartsAt: "10:00", EndsAt: "14:00",
		}, nil
	}

	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available day, got reason %q", result.Reason)
	}
	if len(result.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(result.Windows))
	}
	if result.Windows[0].StartTime != "10:00" || result.Windows[0].EndTime != "14:00" {
		t.Errorf("expected override hours 10:00-14:00, got %s-%s",
			result.Windows[0].StartTime, result.Windows[0].EndTime)
	}
}

func TestResolveDay_RamadanPrecedence(t *testing.T) {
	f := newFixture()

	regular := &model.WorkingSchedule{
		ID: "regular", OwnerID: testOwner, IsActive: true, Priority: 5,
		RecurrenceRule: model.RecurrenceNone,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00", ShiftType: model.ShiftRegular},
		},
	}
	ramadanSched := &model.WorkingSchedule{
		ID: "ramadan", OwnerID: testOwner, IsActive: true, Priority: 1,
		RecurrenceRule: model.RecurrenceRamadan,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 3, StartTime: "21:00", EndTime: "23:30", ShiftType: model.ShiftRegular},
		},
	}
	f.schedules.findActiveFunc = func(ctx context.Context, ownerID, employeeID string) ([]*model.WorkingSchedule, error) {
		return []*model.WorkingSchedule{regular, ramadanSched}, nil
	}
	f.ramadan.findCoveringFunc = func(ctx context.Context, ownerID, date string) (*model.RamadanSchedule, error) {
		return &model.RamadanSchedule{
			OwnerID: testOwner, Year: 2026,
			StartDate: "2026-02-18", EndDate: "2026-03-19",
		}, nil
	}
	f.withSettings(model.AvailabilitySettings{
		AutoSwitchRamadanSchedule: true,
		MaxAdvanceBookingDays:     365,
	})
	f.svc.now = func() time.Time {
		return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	}

	// 2026-02-18 is a Wednesday inside the configured Ramadan period.
	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", "2026-02-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available day, got reason %q", result.Reason)
	}
	if result.ScheduleID != "ramadan" {
		t.Errorf("expected ramadan schedule to win over priority, got %q", result.ScheduleID)
	}
	if result.Windows[0].StartTime != "21:00" {
		t.Errorf("expected ramadan hours, got %+v", result.Windows)
	}

	// Outside the period, the regular schedule applies again.
	f.ramadan.findCoveringFunc = nil
	result, err = f.svc.ResolveDay(context.Background(), testOwner, "", "2026-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ScheduleID != "regular" {
		t.Errorf("expected regular schedule outside ramadan, got %q", result.ScheduleID)
	}
}

func TestResolveDay_EffectiveWindowBrackets(t *testing.T) {
	f := newFixture()

	schedule := f.withSchedule()
	schedule.EffectiveFrom = "2026-10-01"

	result, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected schedule not yet effective on the test date")
	}
	if result.Reason != model.ReasonNoSchedule {
		t.Errorf("expected reason %q, got %q", model.ReasonNoSchedule, result.Reason)
	}
}
