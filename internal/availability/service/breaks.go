package service

import (
	"lamsa/pkg/interval"
	"lamsa/pkg/model"
)

// materializeBreaks expands the schedule's break definitions for one
// concrete date into a merged, disjoint interval set.
//
// Dynamic breaks anchor to the named prayer's clock time for the date:
// [p - flex, p + duration + flex]. When the date falls in a Ramadan period
// with auto-adjust enabled, a maghrib break extends through the Iftar meal.
//
// The second return value reports the fail-closed case: prayer breaks are
// enabled but no prayer row exists for the city and date. The caller must
// then withhold the day's windows entirely rather than silently skip the
// break.
func materializeBreaks(
	schedule *model.WorkingSchedule,
	weekday int,
	es engineSettings,
	prayer *model.PrayerTimes,
	ramadan *model.RamadanSchedule,
	date string,
) (interval.Set, bool) {
	if schedule == nil {
		return interval.Set{}, false
	}

	var intervals []interval.Interval
	for _, brk := range schedule.Breaks {
		if brk.DayOfWeek != weekday {
			continue
		}

		if !brk.IsDynamic {
			iv, err := interval.ParseClockRange(brk.StartTime, brk.EndTime)
			if err != nil {
				continue
			}
			intervals = append(intervals, iv)
			continue
		}

		if !es.enablePrayerBreaks {
			continue
		}
		if prayer == nil {
			return interval.Set{}, true
		}

		anchor := prayer.TimeFor(brk.PrayerName)
		if anchor == "" {
			return interval.Set{}, true
		}
		p, err := interval.ParseClock(anchor)
		if err != nil {
			return interval.Set{}, true
		}

		flex := 0
		if brk.IsFlexible {
			flex = brk.FlexibilityMinutes
			if flex == 0 {
				flex = es.prayerFlexibilityMin
			}
		}

		end := p + brk.DurationMinutes + flex
		if brk.PrayerName == model.PrayerMaghrib &&
			ramadan != nil && ramadan.Covers(date) && ramadan.AutoAdjustMaghrib {
			end += ramadan.IftarBreakMinutes
		}

		intervals = append(intervals, interval.Interval{
			Start: max(0, p-flex),
			End:   min(interval.MinutesPerDay, end),
		})
	}

	return interval.NewSet(intervals...), false
}

// timeOffIntervals converts the date's blocking time-off records into
// intervals on the day axis. The returned bool reports a full-day block.
func timeOffIntervals(records []*model.TimeOff) (interval.Set, bool) {
	var intervals []interval.Interval
	for _, rec := range records {
		if !rec.BlockBookings {
			continue
		}
		if rec.IsFullDay() {
			return interval.NewSet(interval.Interval{Start: 0, End: interval.MinutesPerDay}), true
		}
		iv, err := interval.ParseClockRange(rec.StartTime, rec.EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, iv)
	}
	return interval.NewSet(intervals...), false
}

// bookingIntervals converts the date's active bookings into intervals, each
// padded by the between-appointments buffer on both sides.
func bookingIntervals(bookings []*model.Booking, betweenMinutes int) interval.Set {
	var intervals []interval.Interval
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		iv, err := interval.ParseClockRange(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, iv.Pad(betweenMinutes, betweenMinutes))
	}
	return interval.NewSet(intervals...)
}
