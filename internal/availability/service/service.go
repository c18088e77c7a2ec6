package service

import (
	"context"
	"errors"
	"time"

	scheduleserrors "lamsa/internal/schedules/errors"
	"lamsa/pkg/config"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/model"
)

// AvailabilityService computes, for a provider (or one staff member) on one
// date, which time windows can legally receive a new booking. Unavailability
// is a result value, never an error.
type AvailabilityService interface {
	ResolveDay(ctx context.Context, ownerID, employeeID, date string) (*model.DayScheduleResult, error)
	ComputeSlots(ctx context.Context, ownerID, employeeID, date string, serviceDurationMinutes int) (*model.SlotsResult, error)
	CheckConflict(ctx context.Context, ownerID, employeeID, date, startTime, endTime string) (*model.AvailabilityCheckResult, error)
}

// Narrow read interfaces over the schedule and booking stores. The engine
// never writes; the mongo repositories satisfy these.
type ScheduleReader interface {
	FindActive(ctx context.Context, ownerID string, employeeID string) ([]*model.WorkingSchedule, error)
}

type TimeOffReader interface {
	FindForDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.TimeOff, error)
}

type SpecialDateReader interface {
	FindByDate(ctx context.Context, ownerID string, employeeID string, date string) (*model.SpecialDateOverride, error)
}

type RamadanReader interface {
	FindCovering(ctx context.Context, ownerID string, date string) (*model.RamadanSchedule, error)
}

type SettingsReader interface {
	Get(ctx context.Context, ownerID string) (*model.AvailabilitySettings, error)
}

type PrayerTimesReader interface {
	Get(ctx context.Context, city string, date string) (*model.PrayerTimes, error)
}

type BookingReader interface {
	FindActiveByOwnerAndDate(ctx context.Context, ownerID string, employeeID string, date string) ([]*model.Booking, error)
}

type availabilityService struct {
	schedules    ScheduleReader
	timeOff      TimeOffReader
	specialDates SpecialDateReader
	ramadan      RamadanReader
	settings     SettingsReader
	prayerTimes  PrayerTimesReader
	bookings     BookingReader
	cfg          *config.Config

	// now is injected so results are reproducible in tests and idempotent
	// for a fixed clock.
	now func() time.Time
}

func NewAvailabilityService(
	schedules ScheduleReader,
	timeOff TimeOffReader,
	specialDates SpecialDateReader,
	ramadan RamadanReader,
	settings SettingsReader,
	prayerTimes PrayerTimesReader,
	bookings BookingReader,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		schedules:    schedules,
		timeOff:      timeOff,
		specialDates: specialDates,
		ramadan:      ramadan,
		settings:     settings,
		prayerTimes:  prayerTimes,
		bookings:     bookings,
		cfg:          cfg,
		now:          time.Now,
	}
}

// engineSettings are the owner's stored tunables merged over the configured
// process defaults.
type engineSettings struct {
	city                   string
	prepMinutes            int
	cleanupMinutes         int
	betweenAppointmentsMin int
	slotGranularityMin     int
	enablePrayerBreaks     bool
	prayerFlexibilityMin   int
	autoSwitchRamadan      bool
	minAdvanceBookingHours int
	maxAdvanceBookingDays  int
	womenOnlyEnabled       bool
	womenOnlyDays          []int
	womenOnlyStart         string
	womenOnlyEnd           string
}

func (s *availabilityService) effectiveSettings(ctx context.Context, ownerID string) (engineSettings, error) {
	merged := engineSettings{
		city:                   s.cfg.DefaultCity,
		betweenAppointmentsMin: s.cfg.BetweenAppointmentsMin,
		slotGranularityMin:     s.cfg.SlotGranularityMin,
		prayerFlexibilityMin:   s.cfg.PrayerFlexibilityMin,
		minAdvanceBookingHours: s.cfg.MinAdvanceBookingHours,
		maxAdvanceBookingDays:  s.cfg.MaxAdvanceBookingDays,
	}

	stored, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		// Absent settings are normal; the engine runs on defaults. Any other
		// failure must surface: defaults drop the owner's prayer breaks and
		// buffers, which would over-report availability.
		if errors.Is(err, scheduleserrors.ErrSettingsNotFound) {
			return merged, nil
		}
		s.cfg.Log.Error("Failed to read availability settings", "owner_id", ownerID, "error", err)
		return engineSettings{}, apperrors.Internal("Failed to read availability settings", err)
	}

	if stored.City != "" {
		merged.city = stored.City
	}
	merged.prepMinutes = stored.PrepMinutes
	merged.cleanupMinutes = stored.CleanupMinutes
	merged.betweenAppointmentsMin = stored.BetweenAppointmentsMinutes
	if stored.SlotGranularityMinutes > 0 {
		merged.slotGranularityMin = stored.SlotGranularityMinutes
	}
	merged.enablePrayerBreaks = stored.EnablePrayerBreaks
	if stored.PrayerTimeFlexibilityMinutes > 0 {
		merged.prayerFlexibilityMin = stored.PrayerTimeFlexibilityMinutes
	}
	merged.autoSwitchRamadan = stored.AutoSwitchRamadanSchedule
	if stored.MinAdvanceBookingHours > 0 {
		merged.minAdvanceBookingHours = stored.MinAdvanceBookingHours
	}
	if stored.MaxAdvanceBookingDays > 0 {
		merged.maxAdvanceBookingDays = stored.MaxAdvanceBookingDays
	}
	merged.womenOnlyEnabled = stored.WomenOnlyEnabled
	merged.womenOnlyDays = stored.WomenOnlyDays
	merged.womenOnlyStart = stored.WomenOnlyStart
	merged.womenOnlyEnd = stored.WomenOnlyEnd
	return merged, nil
}

func (es engineSettings) isWomenOnlyDay(dayOfWeek int) bool {
	if !es.womenOnlyEnabled {
		return false
	}
	for _, d := range es.womenOnlyDays {
		if d == dayOfWeek {
			return true
		}
	}
	return false
}

// parseDate validates a YYYY-MM-DD calendar date and returns it with its
// weekday (0=Sunday..6=Saturday).
func parseDate(date string) (time.Time, int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, 0, apperrors.Validation("Date must be a valid YYYY-MM-DD calendar date", map[string]any{
			"date": date,
		})
	}
	return t, int(t.Weekday()), nil
}

// withinBookingWindow checks the advance-booking bracket
// [now + minAdvanceHours, now + maxAdvanceDays] at day resolution.
func (s *availabilityService) withinBookingWindow(day time.Time, es engineSettings) bool {
	now := s.now()

	earliest := now.Add(time.Duration(es.minAdvanceBookingHours) * time.Hour)
	earliestDay := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, time.UTC)
	latest := now.AddDate(0, 0, es.maxAdvanceBookingDays)
	latestDay := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, time.UTC)

	return !day.Before(earliestDay) && !day.After(latestDay)
}
