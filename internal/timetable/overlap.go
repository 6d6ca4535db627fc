package timetable

import (
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// Window places one weekly slot template entry on the timetable. Start and
// End are HH:MM clock times; well-formed values order lexicographically.
type Window struct {
	SlotID  string
	Weekday time.Weekday
	Start   string
	End     string
}

// Overlap details a clash between a candidate window and an existing one.
type Overlap struct {
	WithSlotID string
	Weekday    time.Weekday
	Start      string
	End        string
}

// Overlaps reports whether two windows share a weekday and intersect in
// time. Windows are half open, so back-to-back slots do not clash.
func Overlaps(a, b Window) bool {
	if a.Weekday != b.Weekday {
		return false
	}
	return booking.ClockTimeBefore(a.Start, b.End) && booking.ClockTimeBefore(b.Start, a.End)
}

// DetectOverlaps identifies every existing window the candidate clashes
// with, in the order the existing windows were supplied.
func DetectOverlaps(existing []Window, candidate Window) []Overlap {
	var overlaps []Overlap
	for _, window := range existing {
		if window.SlotID != "" && window.SlotID == candidate.SlotID {
			continue
		}
		if Overlaps(window, candidate) {
			overlaps = append(overlaps, Overlap{
				WithSlotID: window.SlotID,
				Weekday:    window.Weekday,
				Start:      window.Start,
				End:        window.End,
			})
		}
	}
	return overlaps
}
