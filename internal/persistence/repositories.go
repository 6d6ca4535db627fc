package persistence

import (
	"context"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// SlotRepository stores the weekly schedule template. Slots carry no
// update operation: weekday and time window are fixed at creation.
type SlotRepository interface {
	CreateSlot(ctx context.Context, slot Slot) error
	GetSlot(ctx context.Context, id string) (Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
	DeleteSlot(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation queries.
type ReservationFilter struct {
	UserID   string
	RoomID   string
	Status   booking.Status
	DateFrom *time.Time
	DateTo   *time.Time
}

// ReservationRepository stores reservations and applies their status
// transitions. Reservations are never deleted.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)

	// TransitionStatus moves a reservation from one status to another as a
	// guarded write. It returns ErrStaleState when the reservation exists
	// but is no longer in the expected source status.
	TransitionStatus(ctx context.Context, id string, from, to booking.Status, decidedAt time.Time) (Reservation, error)

	// ApproveReservation atomically approves the identified reservation and
	// rejects every other pending reservation sharing its room, slot, and
	// date. It returns ErrConflict when another reservation already holds
	// the approval for the triple, and ErrStaleState when the target is no
	// longer pending. The returned slice holds the reservations rejected as
	// part of the approval.
	ApproveReservation(ctx context.Context, id string, decidedAt time.Time) (Reservation, []Reservation, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
