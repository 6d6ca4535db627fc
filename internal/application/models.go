package application

import (
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// Principal represents the authenticated user invoking a service method.
// It is resolved from a validated session and never from request payloads.
type Principal struct {
	UserID string
	Role   booking.Role
}

// IsAdministrator reports whether the principal holds the administrator role.
func (p Principal) IsAdministrator() bool {
	return p.Role.IsAdministrator()
}

// User represents an institutional account exposed by the application services.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      booking.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     booking.Role
}

// RegisterParams wraps the data required for self-registration.
type RegisterParams struct {
	Input UserInput
}

// CreateUserParams wraps the data required for an administrator to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update an existing user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// Room represents a catalog entry for a bookable physical room.
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

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
	Location string
	Type     string
	Status   booking.RoomStatus
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// RoomFilter narrows room listings.
type RoomFilter struct {
	Status      booking.RoomStatus
	MinCapacity int
	Type        string
}

// Slot represents a recurring weekly time window, independent of any
// calendar date. The weekday and times are fixed at creation.
type Slot struct {
	ID        string
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// SlotInput captures caller provided slot template fields.
type SlotInput struct {
	Weekday   time.Weekday
	StartTime string
	EndTime   string
}

// CreateSlotParams wraps the data required to create a slot template.
type CreateSlotParams struct {
	Principal Principal
	Input     SlotInput
}

// Reservation represents a booking of one room for one slot on one
// calendar date.
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

// ReservationInput captures caller provided reservation fields. The owner
// is always the requesting principal.
type ReservationInput struct {
	RoomID string
	SlotID string
	Date   time.Time
}

// CreateReservationParams wraps the data required to create a reservation.
type CreateReservationParams struct {
	Principal Principal
	Input     ReservationInput
}

// ApproveResult reports the outcome of an approval: the winning
// reservation and the pending competitors rejected alongside it.
type ApproveResult struct {
	Approved Reservation
	Rejected []Reservation
}

// AvailabilityParams wraps the data required to query room availability.
// Zero bounds default to a two week window opening on the current day.
type AvailabilityParams struct {
	Principal Principal
	RoomID    string
	From      time.Time
	To        time.Time
}

// RoomAvailability reports, per slot, which upcoming dates of a room are
// still open for reservation.
type RoomAvailability struct {
	Room  Room
	From  time.Time
	To    time.Time
	Slots []SlotAvailability
}

// SlotAvailability lists the concrete dates one weekly slot occurs on
// within the queried range.
type SlotAvailability struct {
	Slot  Slot
	Dates []DateAvailability
}

// DateAvailability marks a single calendar date as open or taken.
type DateAvailability struct {
	Date      time.Time
	Available bool
}

// ListReservationsParams wraps the data required to list reservations.
type ListReservationsParams struct {
	Principal Principal
	Status    booking.Status
	RoomID    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams captures the data required to refresh an existing session.
type RefreshSessionParams struct {
	Token string
}

// RefreshSessionResult captures the outcome of rotating a session token.
type RefreshSessionResult struct {
	Session Session
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}
