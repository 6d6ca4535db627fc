package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

var testBase = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, store *Storage, id string) persistence.User {
	t.Helper()

	user := persistence.User{
		ID:           id,
		Name:         "User " + id,
		Email:        id + "@example.edu",
		Role:         booking.RoleTeacher,
		PasswordHash: "hash-" + id,
		CreatedAt:    testBase,
		UpdatedAt:    testBase,
	}
	if err := NewUserRepository(store).CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	return user
}

func seedRoom(t *testing.T, store *Storage, id string) persistence.Room {
	t.Helper()

	room := persistence.Room{
		ID:        id,
		Name:      "Room " + id,
		Capacity:  20,
		Location:  "Building A",
		Type:      "Lecture",
		Status:    booking.RoomAvailable,
		CreatedAt: testBase,
		UpdatedAt: testBase,
	}
	if err := NewRoomRepository(store).CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("failed to seed room %s: %v", id, err)
	}
	return room
}

func seedSlot(t *testing.T, store *Storage, id string, weekday time.Weekday) persistence.Slot {
	t.Helper()

	slot := persistence.Slot{
		ID:        id,
		Weekday:   weekday,
		StartTime: "09:00",
		EndTime:   "10:00",
		CreatedAt: testBase,
	}
	if err := NewSlotRepository(store).CreateSlot(context.Background(), slot); err != nil {
		t.Fatalf("failed to seed slot %s: %v", id, err)
	}
	return slot
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestUserRepository_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	created := seedUser(t, store, "user-1")

	got, err := repo.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "user-1@example.edu" || got.Role != booking.RoleTeacher {
		t.Fatalf("unexpected user: %+v", got)
	}

	byEmail, err := repo.GetUserByEmail(ctx, "USER-1@EXAMPLE.EDU")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, byEmail.ID)
	}

	if _, err := repo.GetUser(ctx, "missing"); err != persistence.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := newTestStorage(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	seedUser(t, store, "user-1")

	dup := persistence.User{
		ID:           "user-2",
		Name:         "Duplicate",
		Email:        "user-1@example.edu",
		Role:         booking.RoleTeacher,
		PasswordHash: "hash",
		CreatedAt:    testBase,
		UpdatedAt:    testBase,
	}
	if err := repo.CreateUser(ctx, dup); err != persistence.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRoomRepository_CapacityConstraint(t *testing.T) {
	store := newTestStorage(t)
	repo := NewRoomRepository(store)
	ctx := context.Background()

	room := persistence.Room{
		ID:        "room-1",
		Name:      "Broken",
		Capacity:  0,
		Status:    booking.RoomAvailable,
		CreatedAt: testBase,
		UpdatedAt: testBase,
	}
	if err := repo.CreateRoom(ctx, room); err != persistence.ErrConstraintViolation {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestSlotRepository_OrderingAndConstraints(t *testing.T) {
	store := newTestStorage(t)
	repo := NewSlotRepository(store)
	ctx := context.Background()

	seedSlot(t, store, "slot-b", time.Tuesday)
	seedSlot(t, store, "slot-a", time.Monday)

	inverted := persistence.Slot{
		ID:        "slot-bad",
		Weekday:   time.Monday,
		StartTime: "11:00",
		EndTime:   "10:00",
		CreatedAt: testBase,
	}
	if err := repo.CreateSlot(ctx, inverted); err != persistence.ErrConstraintViolation {
		t.Fatalf("expected ErrConstraintViolation for inverted window, got %v", err)
	}

	slots, err := repo.ListSlots(ctx)
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(slots) != 2 || slots[0].ID != "slot-a" || slots[1].ID != "slot-b" {
		t.Fatalf("unexpected slot ordering: %+v", slots)
	}
}
