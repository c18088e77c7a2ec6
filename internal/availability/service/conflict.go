package service

import (
	"context"
	"sort"

	apperrors "lamsa/pkg/errors"
	"lamsa/pkg/interval"
	"lamsa/pkg/model"
)

// CheckConflict is the advisory write-time check for one candidate booking
// range. The storage-level exclusion constraint remains the authoritative
// guard; a true result here can still lose the race.
func (s *availabilityService) CheckConflict(ctx context.Context, ownerID, employeeID, date, startTime, endTime string) (*model.AvailabilityCheckResult, error) {
	requested, err := interval.ParseClockRange(startTime, endTime)
	if err != nil {
		return nil, apperrors.Validation("Requested time range is invalid", map[string]any{
			"error": err.Error(),
		})
	}

	dc, err := s.computeDayContext(ctx, ownerID, employeeID, date)
	if err != nil {
		return nil, err
	}
	if dc.reason != "" {
		return &model.AvailabilityCheckResult{
			Available: false,
			Reason:    checkReason(dc.reason),
		}, nil
	}

	reason := s.classifyConflict(dc, requested)
	if reason == "" {
		return &model.AvailabilityCheckResult{Available: true}, nil
	}

	return &model.AvailabilityCheckResult{
		Available:        false,
		Reason:           reason,
		AlternativeSlots: s.nearestAlternatives(dc, requested),
	}, nil
}

// classifyConflict returns the empty string when the requested range is
// bookable, otherwise the most specific reason it is not.
func (s *availabilityService) classifyConflict(dc *dayContext, requested interval.Interval) string {
	var covering *model.ShiftWindow
	var coveringIv interval.Interval
	for i, window := range dc.windows {
		wiv, err := interval.ParseClockRange(window.StartTime, window.EndTime)
		if err != nil {
			continue
		}
		if wiv.Contains(requested) {
			covering = &dc.windows[i]
			coveringIv = wiv
			break
		}
	}
	if covering == nil {
		return model.ReasonOutsideWorkingHours
	}

	if dc.windowAtCapacity(*covering, coveringIv) {
		return model.ReasonShiftCapacityExceeded
	}

	for _, iv := range dc.breaks.Intervals() {
		if iv.Overlaps(requested) {
			return model.ReasonBreakConflict
		}
	}
	for _, iv := range dc.timeOff.Intervals() {
		if iv.Overlaps(requested) {
			return model.ReasonTimeOff
		}
	}
	for _, iv := range dc.padded.Intervals() {
		if iv.Overlaps(requested) {
			return model.ReasonBookingConflict
		}
	}

	if !dc.freeWithin(coveringIv).Covers(requested) {
		return model.ReasonOutsideWorkingHours
	}
	return ""
}

// nearestAlternatives offers up to the configured number of same-length
// slots, ordered by absolute distance from the requested start.
func (s *availabilityService) nearestAlternatives(dc *dayContext, requested interval.Interval) []model.TimeSlot {
	if s.cfg.MaxAlternativeSlots <= 0 {
		return nil
	}

	candidates := s.enumerateSlots(dc, requested.Duration())
	sort.SliceStable(candidates, func(i, j int) bool {
		di, _ := interval.ParseClock(candidates[i].StartTime)
		dj, _ := interval.ParseClock(candidates[j].StartTime)
		return abs(di-requested.Start) < abs(dj-requested.Start)
	})

	if len(candidates) > s.cfg.MaxAlternativeSlots {
		candidates = candidates[:s.cfg.MaxAlternativeSlots]
	}
	return candidates
}

// checkReason maps day-level resolver outcomes onto the conflict reason
// vocabulary; slot-level reasons pass through unchanged.
func checkReason(reason string) string {
	switch reason {
	case model.ReasonNoSchedule, model.ReasonNotAWorkingDay, model.ReasonSpecialDateOff:
		return model.ReasonOutsideWorkingHours
	}
	return reason
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
