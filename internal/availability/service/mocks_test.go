package service

import (
	"context"
	"time"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/pkg/config"
	"lamsa/pkg/logger"
	"lamsa/pkg/model"
)

// Function-field mocks over the engine's reader interfaces.

type mockScheduleReader struct {
	findActiveFunc func(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error)
}

func (m *mockScheduleReader) FindActive(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, ownerID, employeeID)
	}
	return nil, nil
}

type mockTimeOffReader struct {
	findForDateFunc func(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.TimeOff, error)
}

func (m *mockTimeOffReader) FindForDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.TimeOff, error) {
	if m.findForDateFunc != nil {
		return m.findForDateFunc(ctx, ownerID, employeeID, date)
	}
	return nil, nil
}

type mockSpecialDateReader struct {
	findByDateFunc func(ctx context.Context, ownerID string, employeeID string, date string) (*model.SpecialDateOverride, error)
}

func (m *mockSpecialDateReader) FindByDate(ctx context.Context, ownerID string, employeeID string, date string) (*model.SpecialDateOverride, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, ownerID, employeeID, date)
	}
	return nil, scheduleserrors.ErrNotFound
}

type mockRamadanReader struct {
	findCoveringFunc func(ctx context.Context, ownerID string, date string) (*model.RamadanSchedule, error)
}

func (m *mockRamadanReader) FindCovering(ctx context.Context, ownerID string, date string) (*model.RamadanSchedule, error) {
	if m.findCoveringFunc != nil {
		return m.findCoveringFunc(ctx, ownerID, date)
	}
	return nil, scheduleserrors.ErrNotFound
}

type mockSettingsReader struct {
	getFunc func(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error)
}

func (m *mockSettingsReader) Get(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID)
	}
	return nil, scheduleserrors.ErrSettingsNotFound
}

type mockPrayerTimesReader struct {
	getFunc func(ctx context.Context, city string, date string) (*model.PrayerTimes, error)
}

func (m *mockPrayerTimesReader) Get(ctx context.Context, city string, date string) (*model.PrayerTimes, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, city, date)
	}
	return nil, scheduleserrors.ErrPrayerTimesNotFound
}

type mockBookingReader struct {
	findActiveFunc func(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.Booking, error)
}

func (m *mockBookingReader) FindActiveByOwnerAndDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, ownerID, employeeID, date)
	}
	return nil, nil
}

type fixture struct {
	schedules    *mockScheduleReader
	timeOff      *mockTimeOffReader
	specialDates *mockSpecialDateReader
	ramadan      *mockRamadanReader
	settings     *mockSettingsReader
	prayerTimes  *mockPrayerTimesReader
	bookings     *mockBookingReader
	svc          *availabilityService
}

const (
	testOwner = "507f1f77bcf86cd799439011"
	// A Tuesday.
	testDate = "2026-09-15"
)

// newFixture wires the engine against empty mocks with a fixed clock well
// before the test date, so the booking window never interferes unless a test
// moves the clock.
func newFixture() *fixture {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:                    log,
		ReadTimeout:            5 * time.Second,
		SlotGranularityMin:     15,
		MaxAlternativeSlots:    3,
		MinAdvanceBookingHours: 2,
		MaxAdvanceBookingDays:  60,
		DefaultCity:            "riyadh",
	}

	f := &fixture{
		schedules:    &mockScheduleReader{},
		timeOff:      &mockTimeOffReader{},
		specialDates: &mockSpecialDateReader{},
		ramadan:      &mockRamadanReader{},
		settings:     &mockSettingsReader{},
		prayerTimes:  &mockPrayerTimesReader{},
		bookings:     &mockBookingReader{},
	}
	f.svc = NewAvailabilityService(
		f.schedules, f.timeOff, f.specialDates, f.ramadan,
		f.settings, f.prayerTimes, f.bookings, cfg,
	).(*availabilityService)
	f.svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
	return f
}

// withSchedule installs one active schedule with a single Tuesday shift
// 09:00-17:00 and the given breaks.
func (f *fixture) withSchedule(breaks ...model.ScheduleBreak) *model.WorkingSchedule {
	schedule := &model.WorkingSchedule{
		ID:             "sched-1",
		OwnerID:        testOwner,
		Name:           "Standard Hours",
		IsActive:       true,
		Priority:       5,
		RecurrenceRule: model.RecurrenceNone,
		Shifts: []model.ScheduleShift{
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", ShiftType: model.ShiftRegular},
		},
		Breaks: breaks,
	}
	f.schedules.findActiveFunc = func(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error) {
		return []*model.WorkingSchedule{schedule}, nil
	}
	return schedule
}

// withSettings installs stored owner settings.
func (f *fixture) withSettings(settings model.AvailabilitySettings) {
	settings.OwnerID = testOwner
	f.settings.getFunc = func(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error) {
		return &settings, nil
	}
}
