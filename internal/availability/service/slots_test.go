package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/interval"
	"lamsa/pkg/model"
)

// assertSlotInvariants checks the guarantees every slot listing must hold:
// pairwise disjoint, sorted ascending, fixed length.
func assertSlotInvariants(t *testing.T, slots []model.TimeSlot, wantLength int) {
	t.Helper()
	for i, slot := range slots {
		iv, err := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		if err != nil {
			t.Fatalf("slot %d has invalid range %s-%s: %v", i, slot.StartTime, slot.EndTime, err)
		}
		if iv.Duration() != wantLength {
			t.Errorf("slot %d: length %d, want %d", i, iv.Duration(), wantLength)
		}
		if i > 0 {
			prev, _ := interval.ParseClockRange(slots[i-1].StartTime, slots[i-1].EndTime)
			if prev.End > iv.Start {
				t.Errorf("slots %d and %d overlap or are unsorted: %+v %+v", i-1, i, prev, iv)
			}
		}
	}
}

func slotStarts(slots []model.TimeSlot) []string {
	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.StartTime
	}
	return starts
}

func TestComputeSlots_BackToBack(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.withSettings(model.AvailabilitySettings{
		PrepMinutes:           10,
		CleanupMinutes:        10,
		MaxAdvanceBookingDays: 60,
	})

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reason != "" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}

	assertSlotInvariants(t, result.Slots, 80)

	starts := slotStarts(result.Slots)
	want := []string{"09:00", "10:20", "11:40"}
	if len(starts) < 3 {
		t.Fatalf("expected at least 3 slots, got %d", len(starts))
	}
	if !reflect.DeepEqual(starts[:3], want) {
		t.Errorf("first three slot starts = %v, want %v", starts[:3], want)
	}
}

func TestComputeSlots_DynamicPrayerBreak(t *testing.T) {
	f := newFixture()
	f.withSchedule(model.ScheduleBreak{
		DayOfWeek: 2, BreakType: "prayer", IsDynamic: true,
		PrayerName: model.PrayerDhuhr, DurationMinutes: 20,
		IsFlexible: true, FlexibilityMinutes: 10,
	})
	f.withSettings(model.AvailabilitySettings{
		City:                  "riyadh",
		EnablePrayerBreaks:    true,
		MaxAdvanceBookingDays: 60,
	})
	f.prayerTimes.getFunc = func(ctx context.Context, city, date string) (*model.PrayerTimes, error) {
		return &model.PrayerTimes{
			City: city, Date: date,
			Fajr: "04:45", Dhuhr: "12:15", Asr: "15:30", Maghrib: "18:20", Isha: "19:50",
			CalculationMethod: "umm_al_qura",
		}, nil
	}

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlotInvariants(t, result.Slots, 60)

	// Break interval = [12:15-10, 12:15+20+10) = [12:05, 12:45).
	brk := interval.Interval{Start: 12*60 + 5, End: 12*60 + 45}
	for _, slot := range result.Slots {
		iv, _ := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		if iv.Overlaps(brk) {
			t.Errorf("slot %s-%s overlaps the dhuhr break", slot.StartTime, slot.EndTime)
		}
	}
}

func TestComputeSlots_PrayerTimesMissingFailsClosed(t *testing.T) {
	f := newFixture()
	f.withSchedule(model.ScheduleBreak{
		DayOfWeek: 2, BreakType: "prayer", IsDynamic: true,
		PrayerName: model.PrayerAsr, DurationMinutes: 15,
	})
	f.withSettings(model.AvailabilitySettings{
		City:                  "riyadh",
		EnablePrayerBreaks:    true,
		MaxAdvanceBookingDays: 60,
	})

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Slots) != 0 {
		t.Errorf("expected no slots when prayer times are missing, got %d", len(result.Slots))
	}
	if result.Reason != model.ReasonPrayerTimesMissing {
		t.Errorf("expected reason %q, got %q", model.ReasonPrayerTimesMissing, result.Reason)
	}
}

func TestComputeSlots_BufferedBookingExcluded(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.withSettings(model.AvailabilitySettings{
		BetweenAppointmentsMinutes: 15,
		MaxAdvanceBookingDays:      60,
	})
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "10:00", EndTime: "11:00", Status: model.StatusConfirmed},
		}, nil
	}

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSlotInvariants(t, result.Slots, 60)

	// The booking expands to [09:45, 11:15); nothing may touch it.
	blocked := interval.Interval{Start: 9*60 + 45, End: 11*60 + 15}
	for _, slot := range result.Slots {
		iv, _ := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		if iv.Overlaps(blocked) {
			t.Errorf("slot %s-%s overlaps the buffered booking", slot.StartTime, slot.EndTime)
		}
	}
	if len(result.Slots) == 0 || result.Slots[0].StartTime != "11:15" {
		t.Errorf("expected first slot at 11:15 after the buffered booking, got %v", slotStarts(result.Slots))
	}
}

func TestComputeSlots_FullDayTimeOff(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.timeOff.findForDateFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.TimeOff, error) {
		return []*model.TimeOff{
			{OwnerID: testOwner, StartDate: testDate, EndDate: testDate, BlockBookings: true},
		}, nil
	}

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(result.Slots))
	}
	if result.Reason != model.ReasonTimeOff {
		t.Errorf("expected reason %q, got %q", model.ReasonTimeOff, result.Reason)
	}
}

func TestComputeSlots_PartialTimeOff(t *testing.T) {
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

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocked := interval.Interval{Start: 13 * 60, End: 15 * 60}
	for _, slot := range result.Slots {
		iv, _ := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		if iv.Overlaps(blocked) {
			t.Errorf("slot %s-%s overlaps blocking time off", slot.StartTime, slot.EndTime)
		}
	}
	if len(result.Slots) == 0 {
		t.Error("expected slots outside the time-off window")
	}
}

func TestComputeSlots_OutsideBookingWindow(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	// Fixed clock 2026-09-01 with a 60-day horizon: 2026-12-01 is out.
	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", "2026-12-01", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(result.Slots))
	}
	if result.Reason != model.ReasonOutsideBookingWindow {
		t.Errorf("expected reason %q, got %q", model.ReasonOutsideBookingWindow, result.Reason)
	}
}

func TestComputeSlots_Idempotent(t *testing.T) {
	f := newFixture()
	f.withSchedule(model.ScheduleBreak{
		DayOfWeek: 2, BreakType: "lunch", StartTime: "12:00", EndTime: "13:00",
	})
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "14:00", EndTime: "15:00", Status: model.StatusPending},
		}, nil
	}

	first, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for identical inputs and a fixed clock")
	}
}

func TestComputeSlots_CancelledBookingFreesInterval(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.bookings.findActiveFunc = func(ctx context.Context, ownerID, employeeID, date string) ([]*model.Booking, error) {
		return []*model.Booking{
			{OwnerID: testOwner, Date: testDate, StartTime: "09:00", EndTime: "10:00", Status: model.StatusCancelled},
		}, nil
	}

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Slots) == 0 || result.Slots[0].StartTime != "09:00" {
		t.Errorf("expected cancelled booking to free 09:00, got %v", slotStarts(result.Slots))
	}
}

func TestComputeSlots_WomenOnlyTagging(t *testing.T) {
	f := newFixture()
	f.withSchedule()
	f.withSettings(model.AvailabilitySettings{
		MaxAdvanceBookingDays: 60,
		WomenOnlyEnabled:      true,
		WomenOnlyDays:         []int{2},
		WomenOnlyStart:        "14:00",
		WomenOnlyEnd:          "17:00",
	})

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	window := interval.Interval{Start: 14 * 60, End: 17 * 60}
	for _, slot := range result.Slots {
		iv, _ := interval.ParseClockRange(slot.StartTime, slot.EndTime)
		if iv.Overlaps(window) != slot.WomenOnly {
			t.Errorf("slot %s-%s: women_only=%v inconsistent with window overlap", slot.StartTime, slot.EndTime, slot.WomenOnly)
		}
	}
}

// A failing settings read must not silently fall back to defaults: defaults
// drop the owner's prayer breaks and buffers, so slots would be offered over
// a break. The store failure surfaces as an error instead.
func TestComputeSlots_SettingsReadFailureSurfacesError(t *testing.T) {
	f := newFixture()
	f.withSchedule(model.ScheduleBreak{
		DayOfWeek:       2,
		IsDynamic:       true,
		PrayerName:      model.PrayerDhuhr,
		DurationMinutes: 20,
	})
	f.settings.getFunc = func(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error) {
		return nil, errors.New("connection reset by peer")
	}

	result, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 60)
	if err == nil {
		t.Fatalf("expected error, got slots: %v", slotStarts(result.Slots))
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInternal {
		t.Errorf("expected code %s, got %s", apperrors.CodeInternal, appErr.Code)
	}

	if _, err := f.svc.ResolveDay(context.Background(), testOwner, "", testDate); err == nil {
		t.Error("ResolveDay must surface the settings read failure as well")
	}
}

func TestComputeSlots_RejectsNonPositiveDuration(t *testing.T) {
	f := newFixture()
	f.withSchedule()

	if _, err := f.svc.ComputeSlots(context.Background(), testOwner, "", testDate, 0); err == nil {
		t.Error("expected validation error for zero duration")
	}
	if _, err := f.svc.ComputeSlots(context.Background(), testOwner, "", "15/09/2026", 30); err == nil {
		t.Error("expected validation error for malformed date")
	}
}
