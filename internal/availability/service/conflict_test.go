package service

import (
	"context"
	"testing"

	"lamsa/pkg/interval"
	"lamsa/pkg/model"
)

func TestCheckConflict_Available(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Errorf("expected available, got reason %q", result.Reason)
	}
}

func TestCheckConflict_BookingConflict(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "10:00", EndTime: "11:00", Status: model.StatusConfirmed},
		}, nil
	}

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "10:30", "11:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonBookingConflict {
		t.Errorf("expected reason %q, got %q", model.ReasonBookingConflict, result.Reason)
	}
}

func TestCheckConflict_BreakConflict(t *testing.T) {
	f := newFixture()
	f.withSchedule(model.ScheduleBreak{
		DayOfWeek: 2, BreakType: "lunch", StartTime: "12:00", EndTime: "13:00",
	})

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "12:30", "13:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonBreakConflict {
		t.Errorf("expected reason %q, got %q", model.ReasonBreakConflict, result.Reason)
	}
}

func TestCheckConflict_OutsideWorkingHours(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "18:00", "19:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonOutsideWorkingHours {
		t.Errorf("expected reason %q, got %q", model.ReasonOutsideWorkingHours, result.Reason)
	}
}

func TestCheckConflict_TimeOff(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.timeOff.findForDateFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.TimeOff, error) {
		return []*model.TimeOff{
			{
				OwnerID: testOwner, StartDate: testDate, EndDate: testDate,
				StartTime: "13:00", EndTime: "15:00", BlockBookings: true,
			},
		}, nil
	}

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "14:00", "15:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonTimeOff {
		t.Errorf("expected reason %q, got %q", model.ReasonTimeOff, result.Reason)
	}
}

func TestCheckConflict_ShiftCapacityExceeded(t *testing.T) {
	f := newFixture()
	schedule := f.withSchedule()
	schedule.Shifts[0].MaxBookings = 1
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
		}, nil
	}

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "11:00", "12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonShiftCapacityExceeded {
		t.Errorf("expected reason %q, got %q", model.ReasonShiftCapacityExceeded, result.Reason)
	}
}

func TestCheckConflict_AlternativesSortedByDistance(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "14:00", EndTime: "15:00", Status: model.StatusConfirmed},
		}, nil
	}

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "14:00", "15:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if len(result.AlternativeSlots) == 0 {
		t.Fatal("expected alternative slots")
	}
	if len(result.AlternativeSlots) > 3 {
		t.Errorf("expected at most 3 alternatives, got %d", len(result.AlternativeSlots))
	}

	requestedStart := 14 * 60
	prevDist := -1
	for _, slot := range result.AlternativeSlots {
		start, _ := interval.ParseClock(slot.StartTime)
		dist := start - requestedStart
		if dist < 0 {
			dist = -dist
		}
		if prevDist >= 0 && dist < prevDist {
			t.Errorf("alternatives not sorted by distance from request: %v", result.AlternativeSlots)
		}
		prevDist = dist
		iv, _ := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		booked := interval.Interval{Start: 14 * 60, End: 15 * 60}
		if iv.Overlaps(booked) {
			t.Errorf("alternative %s-%s overlaps the existing booking", slot.StartTime, slot.EndTime)
		}
	}
}

func TestCheckConflict_OutsideBookingWindow(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	result, err := f.svc.CheckConflict(context.Background(), testOwner, "", "2026-12-01", "10:00", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("expected conflict")
	}
	if result.Reason != model.ReasonOutsideBookingWindow {
		t.Errorf("expected reason %q, got %q", model.ReasonOutsideBookingWindow, result.Reason)
	}
}

func TestCheckConflict_InvalidRange(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	if _, err := f.svc.CheckConflict(context.Background(), testOwner, "", testDate, "15:00", "14:00"); err == nil {
		t.Error("expected error for inverted range")
	}
}
