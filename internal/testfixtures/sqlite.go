package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/campus-reservations/internal/persistence"
	"github.com/example/campus-reservations/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// storage instance for integration-style persistence tests.
type SQLiteHarness struct {
	Storage      *sqlite.Storage
	Users        persistence.UserRepository
	Rooms        persistence.RoomRepository
	Slots        persistence.SlotRepository
	Reservations persistence.ReservationRepository
	Sessions     persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a migrated harness over a temporary database
// file. A cleanup callback is registered with the provided testing.TB, so
// calling Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "reservations.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open sqlite storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		tb.Fatalf("failed to migrate sqlite storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:      store,
		Users:        sqlite.NewUserRepository(store),
		Rooms:        sqlite.NewRoomRepository(store),
		Slots:        sqlite.NewSlotRepository(store),
		Reservations: sqlite.NewReservationRepository(store),
		Sessions:     sqlite.NewSessionRepository(store),
		cleanup: func() {
			store.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
