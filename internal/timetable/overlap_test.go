package timetable

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Window
		b    Window
		want bool
	}{
		{
			name: "identical windows clash",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			b:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			want: true,
		},
		{
			name: "partial intersection clashes",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			b:    Window{Weekday: time.Monday, Start: "10:00", End: "11:00"},
			want: true,
		},
		{
			name: "containment clashes",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "12:00"},
			b:    Window{Weekday: time.Monday, Start: "10:00", End: "11:00"},
			want: true,
		},
		{
			name: "back to back windows do not clash",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			b:    Window{Weekday: time.Monday, Start: "10:30", End: "12:00"},
			want: false,
		},
		{
			name: "same time on another weekday does not clash",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			b:    Window{Weekday: time.Tuesday, Start: "09:00", End: "10:30"},
			want: false,
		},
		{
			name: "disjoint windows do not clash",
			a:    Window{Weekday: time.Monday, Start: "09:00", End: "10:30"},
			b:    Window{Weekday: time.Monday, Start: "13:30", End: "15:00"},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps is not symmetric for %+v and %+v", tt.a, tt.b)
			}
		})
	}
}

func TestDetectOverlaps(t *testing.T) {
	t.Parallel()

	existing := []Window{
		{SlotID: "slot-1", Weekday: time.Monday, Start: "09:00", End: "10:30"},
		{SlotID: "slot-2", Weekday: time.Monday, Start: "10:45", End: "12:15"},
		{SlotID: "slot-3", Weekday: time.Wednesday, Start: "09:00", End: "10:30"},
	}

	t.Run("reports every clashing window in input order", func(t *testing.T) {
		t.Parallel()

		candidate := Window{SlotID: "slot-new", Weekday: time.Monday, Start: "10:00", End: "11:00"}
		overlaps := DetectOverlaps(existing, candidate)
		if len(overlaps) != 2 {
			t.Fatalf("expected 2 overlaps, got %d", len(overlaps))
		}
		if overlaps[0].WithSlotID != "slot-1" || overlaps[1].WithSlotID != "slot-2" {
			t.Fatalf("unexpected overlap order: %+v", overlaps)
		}
	})

	t.Run("returns nothing for a clear window", func(t *testing.T) {
		t.Parallel()

		candidate := Window{SlotID: "slot-new", Weekday: time.Monday, Start: "13:30", End: "15:00"}
		if overlaps := DetectOverlaps(existing, candidate); len(overlaps) != 0 {
			t.Fatalf("expected no overlaps, got %+v", overlaps)
		}
	})

	t.Run("ignores the candidate's own slot id", func(t *testing.T) {
		t.Parallel()

		candidate := Window{SlotID: "slot-1", Weekday: time.Monday, Start: "09:00", End: "10:30"}
		if overlaps := DetectOverlaps(existing, candidate); len(overlaps) != 0 {
			t.Fatalf("expected the candidate's own window to be skipped, got %+v", overlaps)
		}
	})
}
