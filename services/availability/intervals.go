package availability

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range. All interval algebra in
// the engine runs on these rather than on ad hoc date arithmetic, so the
// half-open boundary handling lives in exactly one place.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether [start, end) sits fully inside the interval.
func (iv Interval) Contains(start, end time.Time) bool {
	return !start.Before(iv.Start) && !end.After(iv.End)
}

// MergeIntervals sorts the input and coalesces overlapping and touching
// ranges. Empty and inverted ranges are dropped. The input is not modified.
func MergeIntervals(in []Interval) []Interval {
	spans := make([]Interval, 0, len(in))
	for _, iv := range in {
		if iv.End.After(iv.Start) {
			spans = append(spans, iv)
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start.Before(spans[j].Start) })

	merged := []Interval{spans[0]}
	for _, iv := range spans[1:] {
		last := &merged[len(merged)-1]
		if iv.Start.After(last.End) {
			merged = append(merged, iv)
			continue
		}
		if iv.End.After(last.End) {
			last.End = iv.End
		}
	}
	return merged
}

// Subtract removes every busy range from free, returning the remaining free
// sub-intervals in chronological order. Busy ranges may overlap each other
// and extend past the free interval; they are merged first. A busy block
// ending exactly at a sub-interval start leaves that start available
// (half-open semantics).
func Subtract(free Interval, busy []Interval) []Interval {
	if !free.End.After(free.Start) {
		return nil
	}
	var out []Interval
	cursor := free.Start
	for _, b := range MergeIntervals(busy) {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(free.End) {
			break
		}
		if b.Start.After(cursor) {
			out = append(out, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
		if !cursor.Before(free.End) {
			return out
		}
	}
	if cursor.Before(free.End) {
		out = append(out, Interval{Start: cursor, End: free.End})
	}
	return out
}
