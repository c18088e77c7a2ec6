package service

import (
	"context"
	"errors"
	"sort"

	scheduleserrors "lamsa/internal/schedules/errors"
	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/model"
)

// ResolveDay picks the single effective schedule for the owner (or staff
// member) on the date and returns its working windows, after applying the
// special-date override and Ramadan precedence.
func (s *availabilityService) ResolveDay(ctx context.Context, ownerID, employeeID, date string) (*model.DayScheduleResult, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if _, _, err := parseDate(date); err != nil {
		return nil, err
	}

	es, err := s.effectiveSettings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result, _, _, err := s.resolveDay(ctx, ownerID, employeeID, date, es)
	return result, err
}

// resolveDay also hands back the selected schedule and Ramadan template so
// the slot generator can materialize breaks without re-reading.
func (s *availabilityService) resolveDay(ctx context.Context, ownerID, employeeID, date string, es engineSettings) (*model.DayScheduleResult, *model.WorkingSchedule, *model.RamadanSchedule, error) {
	_, weekday, err := parseDate(date)
	if err != nil {
		return nil, nil, nil, err
	}

	override, err := s.specialDates.FindByDate(ctx, ownerID, employeeID, date)
	if err != nil && !errors.Is(err, scheduleserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to read special date override",
			"owner_id", ownerID,
			"date", date,
			"error", err,
		)
		return nil, nil, nil, apperrors.Internal("Failed to resolve day schedule", err)
	}

	// An explicit closed day beats everything else.
	if override != nil && !override.IsAvailable {
		return &model.DayScheduleResult{
			Date:      date,
			Available: false,
			Reason:    model.ReasonSpecialDateOff,
		}, nil, nil, nil
	}

	candidates, err := s.schedules.FindActive(ctx, ownerID, employeeID)
	if err != nil {
		s.cfg.Log.Error("Failed to read working schedules",
			"owner_id", ownerID,
			"error", err,
		)
		return nil, nil, nil, apperrors.Internal("Failed to resolve day schedule", err)
	}

	var ramadan *model.RamadanSchedule
	if es.autoSwitchRamadan {
		ramadan, err = s.ramadan.FindCovering(ctx, ownerID, date)
		if err != nil && !errors.Is(err, scheduleserrors.ErrNotFound) {
			s.cfg.Log.Error("Failed to read ramadan schedule",
				"owner_id", ownerID,
				"date", date,
				"error", err,
			)
			return nil, nil, nil, apperrors.Internal("Failed to resolve day schedule", err)
		}
	}

	selected := selectSchedule(candidates, date, ramadan)

	// Explicit hours on the override replace whatever the schedule says for
	// this one date.
	if override != nil && override.HasExplicitHours() {
		return &model.DayScheduleResult{
			Date:      date,
			Available: true,
			Windows: []model.ShiftWindow{
				{StartTime: override.StartsAt, EndTime: override.EndsAt, ShiftType: model.ShiftRegular},
			},
		}, selected, ramadan, nil
	}

	if selected == nil {
		// An owner inside Ramadan may run purely on the yearly template
		// without a dedicated weekly schedule.
		if ramadan != nil {
			if windows := ramadanWindows(ramadan); len(windows) > 0 {
				return &model.DayScheduleResult{
					Date:      date,
					Available: true,
					Windows:   windows,
				}, nil, ramadan, nil
			}
		}
		return &model.DayScheduleResult{
			Date:      date,
			Available: false,
			Reason:    model.ReasonNoSchedule,
		}, nil, ramadan, nil
	}

	var windows []model.ShiftWindow
	for _, shift := range selected.Shifts {
		if shift.DayOfWeek != weekday {
			continue
		}
		windows = append(windows, model.ShiftWindow{
			StartTime:   shift.StartTime,
			EndTime:     shift.EndTime,
			ShiftType:   shift.ShiftType,
			MaxBookings: shift.MaxBookings,
		})
	}

	if len(windows) == 0 {
		return &model.DayScheduleResult{
			Date:       date,
			Available:  false,
			Reason:     model.ReasonNotAWorkingDay,
			ScheduleID: selected.ID,
		}, selected, ramadan, nil
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].StartTime < windows[j].StartTime })

	return &model.DayScheduleResult{
		Date:       date,
		Available:  true,
		ScheduleID: selected.ID,
		Windows:    windows,
	}, selected, ramadan, nil
}

// selectSchedule applies the precedence rules: when a Ramadan period covers
// the date, a schedule with the ramadan recurrence rule wins outright;
// otherwise highest priority wins, ties broken by most recent creation.
func selectSchedule(candidates []*model.WorkingSchedule, date string, ramadan *model.RamadanSchedule) *model.WorkingSchedule {
	var inEffect []*model.WorkingSchedule
	for _, c := range candidates {
		if scheduleInEffect(c, date) {
			inEffect = append(inEffect, c)
		}
	}
	if len(inEffect) == 0 {
		return nil
	}

	if ramadan != nil && ramadan.Covers(date) {
		for _, c := range inEffect {
			if c.RecurrenceRule == model.RecurrenceRamadan {
				return c
			}
		}
	}

	best := inEffect[0]
	for _, c := range inEffect[1:] {
		if c.RecurrenceRule == model.RecurrenceRamadan {
			// Ramadan schedules only apply inside a covered period.
			continue
		}
		if best.RecurrenceRule == model.RecurrenceRamadan {
			best = c
			continue
		}
		if c.Priority > best.Priority {
			best = c
		} else if c.Priority == best.Priority && c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best.RecurrenceRule == model.RecurrenceRamadan && (ramadan == nil || !ramadan.Covers(date)) {
		return nil
	}
	return best
}

// scheduleInEffect checks the effective_from/to bracket. Empty bounds are
// unbounded; yearly recurrence compares the month-day portion so the window
// repeats every year.
func scheduleInEffect(schedule *model.WorkingSchedule, date string) bool {
	if schedule.RecurrenceRule == model.RecurrenceYearly &&
		len(schedule.EffectiveFrom) == 10 && len(schedule.EffectiveTo) == 10 && len(date) == 10 {
		from, to, md := schedule.EffectiveFrom[5:], schedule.EffectiveTo[5:], date[5:]
		if from <= to {
			return from <= md && md <= to
		}
		// Window wraps over the new year.
		return md >= from || md <= to
	}

	if schedule.EffectiveFrom != "" && date < schedule.EffectiveFrom {
		return false
	}
	if schedule.EffectiveTo != "" && date > schedule.EffectiveTo {
		return false
	}
	return true
}

// ramadanWindows builds working windows straight from the yearly template
// for owners that configure Ramadan hours without a weekly schedule.
func ramadanWindows(r *model.RamadanSchedule) []model.ShiftWindow {
	var windows []model.ShiftWindow
	if r.EarlyShiftStart != "" && r.EarlyShiftEnd != "" {
		windows = append(windows, model.ShiftWindow{
			StartTime: r.EarlyShiftStart,
			EndTime:   r.EarlyShiftEnd,
			ShiftType: model.ShiftRegular,
		})
	}
	if r.LateShiftStart != "" && r.LateShiftEnd != "" {
		windows = append(windows, model.ShiftWindow{
			StartTime: r.LateShiftStart,
			EndTime:   r.LateShiftEnd,
			ShiftType: model.ShiftRegular,
		})
	}
	return windows
}
