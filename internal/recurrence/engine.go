package recurrence

import (
	"errors"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// DefaultMaxRangeDays bounds how far a single expansion may reach. A
// quarter keeps availability queries cheap while covering a full term
// planning horizon.
const DefaultMaxRangeDays = 92

// ErrInvalidRange indicates the expansion range ends before it starts.
var ErrInvalidRange = errors.New("recurrence: range end precedes range start")

// ErrRangeTooWide indicates the expansion range exceeds the engine limit.
var ErrRangeTooWide = errors.New("recurrence: range exceeds the expansion limit")

// Engine expands weekly slot templates into the concrete calendar dates
// they occur on. Dates are normalized to midnight UTC so they compare
// equal with stored reservation dates.
type Engine struct {
	maxRangeDays int
}

// NewEngine constructs an Engine with the default range limit.
func NewEngine() *Engine {
	return &Engine{maxRangeDays: DefaultMaxRangeDays}
}

// NewEngineWithLimit constructs an Engine with a custom range limit in
// days. Non-positive limits fall back to the default.
func NewEngineWithLimit(maxRangeDays int) *Engine {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &Engine{maxRangeDays: maxRangeDays}
}

// Occurrences lists every date between from and to, inclusive, that falls
// on the given weekday. The bounds are truncated to calendar dates before
// evaluation, so time-of-day components never shift an occurrence.
func (e *Engine) Occurrences(weekday time.Weekday, from, to time.Time) ([]time.Time, error) {
	limit := DefaultMaxRangeDays
	if e != nil && e.maxRangeDays > 0 {
		limit = e.maxRangeDays
	}

	start := booking.NormalizeDate(from)
	end := booking.NormalizeDate(to)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if int(end.Sub(start).Hours()/24) >= limit {
		return nil, ErrRangeTooWide
	}

	current := start
	for current.Weekday() != weekday {
		current = current.AddDate(0, 0, 1)
	}

	var occurrences []time.Time
	for !current.After(end) {
		occurrences = append(occurrences, current)
		current = current.AddDate(0, 0, 7)
	}
	return occurrences, nil
}
