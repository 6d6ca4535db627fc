package booking

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	valid := []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}
	for _, want := range valid {
		got, err := ParseStatus(string(want))
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", want, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %q", want, got)
		}
	}

	for _, value := range []string{"", "pending", "Validée", "Unknown"} {
		if _, err := ParseStatus(value); err == nil {
			t.Fatalf("ParseStatus(%q) expected error", value)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	if StatusPending.IsTerminal() {
		t.Fatalf("Pending must not be terminal")
	}
	for _, status := range []Status{StatusApproved, StatusRejected, StatusCancelled} {
		if !status.IsTerminal() {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	all := []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

	for _, to := range []Status{StatusApproved, StatusRejected, StatusCancelled} {
		if !CanTransition(StatusPending, to) {
			t.Fatalf("expected Pending -> %q to be permitted", to)
		}
	}

	// Terminal states admit no outgoing transitions, including self loops.
	for _, from := range []Status{StatusApproved, StatusRejected, StatusCancelled} {
		for _, to := range all {
			if CanTransition(from, to) {
				t.Fatalf("expected %q -> %q to be forbidden", from, to)
			}
		}
	}

	if CanTransition(StatusPending, StatusPending) {
		t.Fatalf("Pending -> Pending must be forbidden")
	}
}

func TestParseRoomStatus(t *testing.T) {
	t.Parallel()

	for _, want := range []RoomStatus{RoomAvailable, RoomOccupied, RoomMaintenance} {
		got, err := ParseRoomStatus(string(want))
		if err != nil {
			t.Fatalf("ParseRoomStatus(%q) returned error: %v", want, err)
		}
		if got != want {
			t.Fatalf("ParseRoomStatus(%q) = %q", want, got)
		}
	}

	if _, err := ParseRoomStatus("Closed"); err == nil {
		t.Fatalf("expected error for unknown room status")
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole("Administrator")
	if err != nil {
		t.Fatalf("ParseRole returned error: %v", err)
	}
	if !role.IsAdministrator() {
		t.Fatalf("expected administrator role")
	}

	role, err = ParseRole("Teacher")
	if err != nil {
		t.Fatalf("ParseRole returned error: %v", err)
	}
	if role.IsAdministrator() {
		t.Fatalf("teacher role must not be administrative")
	}

	if _, err := ParseRole("Student"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestTripleKey(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	key := TripleKey("room-1", "slot-1", date)
	if key != "room-1|slot-1|2024-06-10" {
		t.Fatalf("unexpected triple key %q", key)
	}

	// Same calendar date in another zone yields the same key.
	tokyo := time.FixedZone("JST", 9*60*60)
	other := TripleKey("room-1", "slot-1", time.Date(2024, time.June, 10, 9, 0, 0, 0, tokyo))
	if other != key {
		t.Fatalf("expected identical keys, got %q and %q", key, other)
	}
}
