package interval

import (
	"fmt"
	"regexp"
)

const MinutesPerDay = 24 * 60

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock converts a wall-clock "HH:MM" value to minutes from midnight.
func ParseClock(s string) (int, error) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	hours := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	minutes := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	return hours*60 + minutes, nil
}

// FormatClock converts minutes from midnight back to "HH:MM". Values are
// clamped into the day.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= MinutesPerDay {
		minutes = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClockRange parses a start/end pair into a half-open interval and
// rejects inverted or empty ranges.
func ParseClockRange(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("end time %q must be after start time %q", end, start)
	}
	return Interval{Start: s, End: e}, nil
}
