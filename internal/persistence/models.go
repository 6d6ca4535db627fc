package persistence

import (
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// User represents an institutional account stored by the persistence layer.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         booking.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a bookable physical room.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Location  string
	Type      string
	Status    booking.RoomStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot represents one entry of the fixed weekly schedule template. The
// weekday and time window are immutable once created.
type Slot struct {
	ID        string
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// Reservation represents a booking of one room for one slot on one
// calendar date. Rows are never deleted; they form the audit trail.
type Reservation struct {
	ID        string
	RoomID    string
	SlotID    string
	UserID    string
	Date      time.Time
	Status    booking.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
