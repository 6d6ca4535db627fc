package booking

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a reservation.
type Status string

const (
	// StatusPending is the initial state of every reservation.
	StatusPending Status = "Pending"
	// StatusApproved marks the single winning reservation for a triple.
	StatusApproved Status = "Approved"
	// StatusRejected marks a reservation declined by an administrator.
	StatusRejected Status = "Rejected"
	// StatusCancelled marks a reservation withdrawn by its owner.
	StatusCancelled Status = "Cancelled"
)

// ParseStatus converts a wire value into a Status.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.TrimSpace(value)) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("booking: unknown status %q", value)
}

// IsTerminal reports whether no further transition may leave the status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the state machine permits moving from one
// status to another. Only Pending admits outgoing transitions.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// RoomStatus represents the operational state of a room.
type RoomStatus string

const (
	// RoomAvailable allows new reservations to reference the room.
	RoomAvailable RoomStatus = "Available"
	// RoomOccupied blocks new reservations without removing the room.
	RoomOccupied RoomStatus = "Occupied"
	// RoomMaintenance takes the room out of service.
	RoomMaintenance RoomStatus = "Maintenance"
)

// ParseRoomStatus converts a wire value into a RoomStatus.
func ParseRoomStatus(value string) (RoomStatus, error) {
	switch RoomStatus(strings.TrimSpace(value)) {
	case RoomAvailable:
		return RoomAvailable, nil
	case RoomOccupied:
		return RoomOccupied, nil
	case RoomMaintenance:
		return RoomMaintenance, nil
	}
	return "", fmt.Errorf("booking: unknown room status %q", value)
}

// Role identifies the institutional role of a user.
type Role string

const (
	// RoleTeacher is the default role chosen at registration.
	RoleTeacher Role = "Teacher"
	// RoleAdministrator may approve, reject, and manage catalog data.
	RoleAdministrator Role = "Administrator"
)

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(strings.TrimSpace(value)) {
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleAdministrator:
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("booking: unknown role %q", value)
}

// IsAdministrator reports whether the role carries administrative rights.
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}

// TripleKey produces the conflict key identifying one room, one slot, and
// one calendar date. Reservations sharing a key compete for approval.
func TripleKey(roomID, slotID string, date time.Time) string {
	return roomID + "|" + slotID + "|" + FormatDate(date)
}
