package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	scheduleserrors "lamsa/internal/schedules/errors"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/interval"
	"lamsa/pkg/model"
)

// dayContext is everything the slot arithmetic needs for one owner and date,
// gathered in one concurrent read pass. Once built, slot computation is pure
// interval math.
type dayContext struct {
	es       engineSettings
	date     string
	day      time.Time
	weekday  int
	windows  []model.ShiftWindow
	breaks   interval.Set
	timeOff  interval.Set
	bookings []*model.Booking
	padded   interval.Set

	// reason is set when the whole day is unavailable before any slot
	// arithmetic runs.
	reason string
}

func (s *availabilityService) computeDayContext(ctx context.Context, ownerID, employeeID, date string) (*dayContext, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	day, weekday, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	es, err := s.effectiveSettings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dc := &dayContext{es: es, date: date, day: day, weekday: weekday}

	if !s.withinBookingWindow(day, es) {
		dc.reason = model.ReasonOutsideBookingWindow
		return dc, nil
	}

	// The four reads are independent; issue them together and join before
	// any arithmetic.
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var (
		resolution *model.DayScheduleResult
		schedule   *model.WorkingSchedule
		ramadan    *model.RamadanSchedule
		timeOff    []*model.TimeOff
		bookings   []*model.Booking
		prayer     *model.PrayerTimes

		errResolve, errTimeOff, errBookings error
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		resolution, schedule, ramadan, errResolve = s.resolveDay(sharedCtx, ownerID, employeeID, date, es)
	}()

	go func() {
		defer wg.Done()
		var err error
		timeOff, err = s.timeOff.FindForDate(sharedCtx, ownerID, employeeID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to read time off", "owner_id", ownerID, "date", date, "error", err)
			errTimeOff = apperrors.Internal("Failed to read time off", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.bookings.FindActiveByOwnerAndDate(sharedCtx, ownerID, employeeID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to read bookings", "owner_id", ownerID, "date", date, "error", err)
			errBookings = apperrors.Internal("Failed to read bookings", err)
		}
	}()

	if es.enablePrayerBreaks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			prayer, err = s.prayerTimes.Get(sharedCtx, es.city, date)
			if err != nil && !errors.Is(err, scheduleserrors.ErrPrayerTimesNotFound) {
				// Treated the same as a missing row: fail closed downstream.
				s.cfg.Log.Error("Failed to read prayer times", "city", es.city, "date", date, "error", err)
			}
		}()
	}

	wg.Wait()

	// Missing time-off or booking data must fail the request outright:
	// under-reporting either risks a double-booking.
	if errResolve != nil {
		return nil, errResolve
	}
	if errTimeOff != nil {
		return nil, errTimeOff
	}
	if errBookings != nil {
		return nil, errBookings
	}

	if !resolution.Available {
		dc.reason = resolution.Reason
		return dc, nil
	}
	dc.windows = resolution.Windows
	dc.bookings = bookings
	dc.padded = bookingIntervals(bookings, es.betweenAppointmentsMin)

	var fullDayOff bool
	dc.timeOff, fullDayOff = timeOffIntervals(timeOff)
	if fullDayOff {
		dc.reason = model.ReasonTimeOff
		return dc, nil
	}

	var prayerMissing bool
	dc.breaks, prayerMissing = materializeBreaks(schedule, weekday, es, prayer, ramadan, date)
	if prayerMissing {
		appErr := apperrors.Configuration("Prayer times missing while a dynamic break is enabled", map[string]any{
			"owner_id": ownerID,
			"city":     es.city,
			"date":     date,
		})
		s.cfg.Log.Error("Withholding day availability: prayer times missing",
			"owner_id", ownerID,
			"city", es.city,
			"date", date,
			"error", appErr,
		)
		dc.reason = model.ReasonPrayerTimesMissing
		return dc, nil
	}

	return dc, nil
}

// freeWithin subtracts breaks, blocking time-off and buffered bookings from
// one working window.
func (dc *dayContext) freeWithin(window interval.Interval) interval.Set {
	return interval.NewSet(window).
		Subtract(dc.breaks).
		Subtract(dc.timeOff).
		Subtract(dc.padded)
}

// windowAtCapacity reports whether the shift's booking cap is exhausted by
// the active bookings overlapping it.
func (dc *dayContext) windowAtCapacity(window model.ShiftWindow, iv interval.Interval) bool {
	if window.MaxBookings <= 0 {
		return false
	}
	count := 0
	for _, b := range dc.bookings {
		biv, err := interval.ParseClockRange(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if biv.Overlaps(iv) {
			count++
		}
	}
	return count >= window.MaxBookings
}

// ComputeSlots returns the bookable slots for a service of the given
// duration, pairwise disjoint and sorted ascending by start.
func (s *availabilityService) ComputeSlots(ctx context.Context, ownerID, employeeID, date string, serviceDurationMinutes int) (*model.SlotsResult, error) {
	if serviceDurationMinutes <= 0 {
		return nil, apperrors.Validation("Service duration must be positive", map[string]any{
			"service_duration_minutes": serviceDurationMinutes,
		})
	}

	dc, err := s.computeDayContext(ctx, ownerID, employeeID, date)
	if err != nil {
		return nil, err
	}
	if dc.reason != "" {
		return &model.SlotsResult{Date: date, Slots: []model.TimeSlot{}, Reason: dc.reason}, nil
	}

	slotLength := dc.es.prepMinutes + serviceDurationMinutes + dc.es.cleanupMinutes
	slots := s.enumerateSlots(dc, slotLength)

	return &model.SlotsResult{Date: date, Slots: slots}, nil
}

func (s *availabilityService) enumerateSlots(dc *dayContext, slotLength int) []model.TimeSlot {
	step := slotLength + dc.es.betweenAppointmentsMin

	// For today, slots that start before the advance-booking lead time are
	// already unbookable.
	minStart := 0
	now := s.now()
	if dc.date == now.Format("2006-01-02") {
		minStart = now.Hour()*60 + now.Minute() + dc.es.minAdvanceBookingHours*60
	}

	womenOnlyDay := dc.es.isWomenOnlyDay(dc.weekday)
	var womenWindow interval.Interval
	if womenOnlyDay && dc.es.womenOnlyStart != "" && dc.es.womenOnlyEnd != "" {
		if iv, err := interval.ParseClockRange(dc.es.womenOnlyStart, dc.es.womenOnlyEnd); err == nil {
			womenWindow = iv
		}
	}

	var slots []model.TimeSlot
	for _, window := range dc.windows {
		wiv, err := interval.ParseClockRange(window.StartTime, window.EndTime)
		if err != nil {
			continue
		}
		if dc.windowAtCapacity(window, wiv) {
			continue
		}

		for _, free := range dc.freeWithin(wiv).Intervals() {
			start := alignUp(free.Start, dc.es.slotGranularityMin)
			for start+slotLength <= free.End {
				if start >= minStart {
					slot := interval.Interval{Start: start, End: start + slotLength}
					slots = append(slots, model.TimeSlot{
						Date:      dc.date,
						StartTime: interval.FormatClock(slot.Start),
						EndTime:   interval.FormatClock(slot.End),
						ShiftType: window.ShiftType,
						WomenOnly: window.ShiftType == model.ShiftWomenOnly ||
							(womenOnlyDay && slot.Overlaps(womenWindow)),
					})
				}
				start += step
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })
	return slots
}

// alignUp rounds a minute offset up to the granularity grid.
func alignUp(minute, granularity int) int {
	if granularity <= 0 {
		return minute
	}
	rem := minute % granularity
	if rem == 0 {
		return minute
	}
	return minute + granularity - rem
}
