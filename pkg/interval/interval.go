// Package interval implements half-open minute-of-day intervals and sorted
// disjoint interval sets. Schedule resolution, break materialization and slot
// generation all reduce to the set operations here.
package interval

import "sort"

// Interval is a half-open range [Start, End) in minutes from midnight.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (iv Interval) IsEmpty() bool {
	return iv.End <= iv.Start
}

func (iv Interval) Duration() int {
	if iv.IsEmpty() {
		return 0
	}
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals share any minute.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other lies fully inside iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Pad widens the interval by the given number of minutes on each side,
// clamped to the day.
func (iv Interval) Pad(before, after int) Interval {
	return Interval{
		Start: max(0, iv.Start-before),
		End:   min(MinutesPerDay, iv.End+after),
	}
}

// Set is a sorted collection of disjoint non-empty intervals.
type Set struct {
	intervals []Interval
}

// NewSet builds a normalized set: empty intervals dropped, overlapping and
// adjacent intervals merged, result sorted by start.
func NewSet(intervals ...Interval) Set {
	var kept []Interval
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		return Set{}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start == kept[j].Start {
			return kept[i].End < kept[j].End
		}
		return kept[i].Start < kept[j].Start
	})

	merged := []Interval{kept[0]}
	for _, iv := range kept[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return Set{intervals: merged}
}

// Intervals returns a copy of the set's intervals in ascending order.
func (s Set) Intervals() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

func (s Set) IsEmpty() bool {
	return len(s.intervals) == 0
}

// TotalMinutes returns the summed duration of all intervals.
func (s Set) TotalMinutes() int {
	total := 0
	for _, iv := range s.intervals {
		total += iv.Duration()
	}
	return total
}

func (s Set) Union(other Set) Set {
	return NewSet(append(s.Intervals(), other.intervals...)...)
}

// Subtract removes every minute of other from s.
func (s Set) Subtract(other Set) Set {
	if s.IsEmpty() || other.IsEmpty() {
		return NewSet(s.intervals...)
	}

	var result []Interval
	for _, iv := range s.intervals {
		remaining := []Interval{iv}
		for _, cut := range other.intervals {
			var next []Interval
			for _, r := range remaining {
				if !r.Overlaps(cut) {
					next = append(next, r)
					continue
				}
				if cut.Start > r.Start {
					next = append(next, Interval{Start: r.Start, End: cut.Start})
				}
				if cut.End < r.End {
					next = append(next, Interval{Start: cut.End, End: r.End})
				}
			}
			remaining = next
			if len(remaining) == 0 {
				break
			}
		}
		result = append(result, remaining...)
	}
	return NewSet(result...)
}

func (s Set) Intersect(other Set) Set {
	var result []Interval
	for _, a := range s.intervals {
		for _, b := range other.intervals {
			if a.Overlaps(b) {
				result = append(result, Interval{
					Start: max(a.Start, b.Start),
					End:   min(a.End, b.End),
				})
			}
		}
	}
	return NewSet(result...)
}

// Covers reports whether iv lies fully inside a single interval of the set.
func (s Set) Covers(iv Interval) bool {
	for _, member := range s.intervals {
		if member.Contains(iv) {
			return true
		}
	}
	return false
}
