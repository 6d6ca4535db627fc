package booking

import (
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date encoding used on the wire and
// in storage.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD value and normalizes it to midnight UTC.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(parsed), nil
}

// FormatDate renders a calendar date in the canonical encoding.
func FormatDate(date time.Time) string {
	return date.UTC().Format(DateLayout)
}

// NormalizeDate truncates a timestamp to its calendar date at midnight UTC,
// so that equal dates compare equal regardless of the source location.
func NormalizeDate(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// RuleViolation identifies a date rule broken by a reservation request.
type RuleViolation string

const (
	// ViolationWeekend flags a Saturday or Sunday reservation date.
	ViolationWeekend RuleViolation = "weekend"
	// ViolationWeekdayMismatch flags a date that does not fall on the
	// slot template's weekday.
	ViolationWeekdayMismatch RuleViolation = "weekday_mismatch"
	// ViolationPastDate flags a date before the current day.
	ViolationPastDate RuleViolation = "past_date"
)

// CheckDate evaluates the institutional date rules for a reservation:
// the date must fall on the slot's weekday, must not be in the past, and
// must not be a weekend regardless of which slots exist.
func CheckDate(date time.Time, slotWeekday time.Weekday, today time.Time) []RuleViolation {
	day := NormalizeDate(date)
	reference := NormalizeDate(today)

	var violations []RuleViolation
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		violations = append(violations, ViolationWeekend)
	}
	if day.Weekday() != slotWeekday {
		violations = append(violations, ViolationWeekdayMismatch)
	}
	if day.Before(reference) {
		violations = append(violations, ViolationPastDate)
	}
	return violations
}

// ClockTimeValid reports whether a value is a well-formed HH:MM clock time.
func ClockTimeValid(value string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(value))
	return err == nil
}

// ClockTimeBefore reports whether one HH:MM value precedes another.
// Well-formed HH:MM strings order lexicographically.
func ClockTimeBefore(start, end string) bool {
	return strings.TrimSpace(start) < strings.TrimSpace(end)
}
