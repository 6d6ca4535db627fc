package recurrence

import (
	"errors"
	"testing"
	"time"
)

func TestEngine_Occurrences(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	monday := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

	t.Run("lists every matching weekday in the range", func(t *testing.T) {
		t.Parallel()

		occurrences, err := engine.Occurrences(time.Monday, monday, monday.AddDate(0, 0, 21))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []time.Time{
			monday,
			monday.AddDate(0, 0, 7),
			monday.AddDate(0, 0, 14),
			monday.AddDate(0, 0, 21),
		}
		if len(occurrences) != len(want) {
			t.Fatalf("expected %d occurrences, got %d", len(want), len(occurrences))
		}
		for i, occurrence := range occurrences {
			if !occurrence.Equal(want[i]) {
				t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], occurrence)
			}
			if occurrence.Weekday() != time.Monday {
				t.Fatalf("occurrence %d falls on %s", i, occurrence.Weekday())
			}
		}
	})

	t.Run("starts from the first matching weekday", func(t *testing.T) {
		t.Parallel()

		// Range opens on a Monday but asks for Wednesdays.
		occurrences, err := engine.Occurrences(time.Wednesday, monday, monday.AddDate(0, 0, 13))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
		}
		if got := occurrences[0]; !got.Equal(monday.AddDate(0, 0, 2)) {
			t.Fatalf("expected first occurrence on %s, got %s", monday.AddDate(0, 0, 2), got)
		}
	})

	t.Run("truncates time-of-day before matching", func(t *testing.T) {
		t.Parallel()

		lateMonday := time.Date(2024, time.June, 3, 23, 45, 0, 0, time.UTC)
		occurrences, err := engine.Occurrences(time.Monday, lateMonday, lateMonday.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 1 {
			t.Fatalf("expected the opening Monday to match, got %d occurrences", len(occurrences))
		}
		if got := occurrences[0]; got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("expected a midnight UTC date, got %s", got)
		}
	})

	t.Run("returns no occurrences when the weekday never appears", func(t *testing.T) {
		t.Parallel()

		occurrences, err := engine.Occurrences(time.Friday, monday, monday.AddDate(0, 0, 2))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 0 {
			t.Fatalf("expected no occurrences, got %d", len(occurrences))
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Occurrences(time.Monday, monday, monday.AddDate(0, 0, -1))
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("rejects a range beyond the limit", func(t *testing.T) {
		t.Parallel()

		_, err := engine.Occurrences(time.Monday, monday, monday.AddDate(0, 0, DefaultMaxRangeDays))
		if !errors.Is(err, ErrRangeTooWide) {
			t.Fatalf("expected ErrRangeTooWide, got %v", err)
		}
	})

	t.Run("honors a custom range limit", func(t *testing.T) {
		t.Parallel()

		narrow := NewEngineWithLimit(7)
		if _, err := narrow.Occurrences(time.Monday, monday, monday.AddDate(0, 0, 7)); !errors.Is(err, ErrRangeTooWide) {
			t.Fatalf("expected ErrRangeTooWide, got %v", err)
		}
		occurrences, err := narrow.Occurrences(time.Monday, monday, monday.AddDate(0, 0, 6))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 1 {
			t.Fatalf("expected 1 occurrence inside the narrowed limit, got %d", len(occurrences))
		}
	})
}
