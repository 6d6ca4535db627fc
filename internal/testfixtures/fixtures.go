package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	slotCounter        uint64
	reservationCounter uint64
	sessionCounter     uint64
)

// referenceTime is a Monday so reservation fixtures land on a valid weekday.
var referenceTime = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the first bookable Monday after ReferenceTime.
func ReferenceDate() time.Time {
	return time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record for application or
// persistence tests.
type UserFixture struct {
	ID           string
	Name         string
	Email        string
	Role         booking.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Name:         fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("%s@example.edu", id),
		Role:         booking.RoleTeacher,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// AsAdministrator marks the fixture as an administrator account.
func AsAdministrator() UserOption {
	return func(f *UserFixture) { f.Role = booking.RoleAdministrator }
}

// WithUserEmail overrides the fixture email.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// Persistence converts the fixture into its storage model.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		Role:         f.Role,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Application converts the fixture into its service layer model.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Role:      f.Role,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Principal derives the acting principal for the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, Role: f.Role}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic room record.
type RoomFixture struct {
	ID        string
	Name      string
	Capacity  int
	Location  string
	Type      string
	Status    booking.RoomStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("A-%03d", idx),
		Capacity:  30,
		Location:  "Building A",
		Type:      "Classroom",
		Status:    booking.RoomAvailable,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomStatus overrides the room availability status.
func WithRoomStatus(status booking.RoomStatus) RoomOption {
	return func(f *RoomFixture) { f.Status = status }
}

// WithRoomCapacity overrides the room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) { f.Capacity = capacity }
}

// Persistence converts the fixture into its storage model.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		Location:  f.Location,
		Type:      f.Type,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Application converts the fixture into its service layer model.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		Location:  f.Location,
		Type:      f.Type,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Slot fixtures -----------------------------

// SlotFixture represents a deterministic weekly slot record.
type SlotFixture struct {
	ID        string
	Weekday   time.Weekday
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// SlotOption configures the generated slot fixture.
type SlotOption func(*SlotFixture)

// NewSlotFixture returns a deterministic slot fixture with optional overrides.
// The default slot recurs on Mondays.
func NewSlotFixture(opts ...SlotOption) SlotFixture {
	idx := atomic.AddUint64(&slotCounter, 1)
	fixture := SlotFixture{
		ID:        fmt.Sprintf("slot-%03d", idx),
		Weekday:   time.Monday,
		StartTime: "08:00",
		EndTime:   "10:00",
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSlotWeekday overrides the weekday the slot recurs on.
func WithSlotWeekday(weekday time.Weekday) SlotOption {
	return func(f *SlotFixture) { f.Weekday = weekday }
}

// WithSlotWindow overrides the time window.
func WithSlotWindow(start, end string) SlotOption {
	return func(f *SlotFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// Persistence converts the fixture into its storage model.
func (f SlotFixture) Persistence() persistence.Slot {
	return persistence.Slot{
		ID:        f.ID,
		Weekday:   f.Weekday,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		CreatedAt: f.CreatedAt,
	}
}

// Application converts the fixture into its service layer model.
func (f SlotFixture) Application() application.Slot {
	return application.Slot{
		ID:        f.ID,
		Weekday:   f.Weekday,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		CreatedAt: f.CreatedAt,
	}
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture represents a deterministic reservation record.
type ReservationFixture struct {
	ID        string
	RoomID    string
	SlotID    string
	UserID    string
	Date      time.Time
	Status    booking.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a deterministic pending reservation with
// optional overrides. The default date is the first bookable Monday.
func NewReservationFixture(opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Second)
	fixture := ReservationFixture{
		ID:        fmt.Sprintf("reservation-%03d", idx),
		RoomID:    "room-001",
		SlotID:    "slot-001",
		UserID:    "user-001",
		Date:      ReferenceDate(),
		Status:    booking.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// ForTriple pins the reservation to a specific room, slot, and date.
func ForTriple(roomID, slotID string, date time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.RoomID = roomID
		f.SlotID = slotID
		f.Date = date
	}
}

// OwnedBy overrides the reservation owner.
func OwnedBy(userID string) ReservationOption {
	return func(f *ReservationFixture) { f.UserID = userID }
}

// WithStatus overrides the reservation status.
func WithStatus(status booking.Status) ReservationOption {
	return func(f *ReservationFixture) { f.Status = status }
}

// Persistence converts the fixture into its storage model.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		SlotID:    f.SlotID,
		UserID:    f.UserID,
		Date:      f.Date,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Application converts the fixture into its service layer model.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		SlotID:    f.SlotID,
		UserID:    f.UserID,
		Date:      f.Date,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// --------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic active session with optional
// overrides. The default session expires twelve hours after ReferenceTime.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    "user-001",
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(12 * time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// Expired marks the session as already past its expiry.
func Expired() SessionOption {
	return func(f *SessionFixture) { f.ExpiresAt = referenceTime.Add(-time.Hour) }
}

// Revoked marks the session as explicitly revoked.
func Revoked() SessionOption {
	return func(f *SessionFixture) {
		revoked := referenceTime.Add(-time.Minute)
		f.RevokedAt = &revoked
	}
}

// Persistence converts the fixture into its storage model.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: f.RevokedAt,
	}
}

// Application converts the fixture into its service layer model.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: f.RevokedAt,
	}
}
