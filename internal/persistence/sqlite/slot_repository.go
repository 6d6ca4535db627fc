package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campus-reservations/internal/persistence"
)

// SlotRepository implements persistence.SlotRepository using SQLite.
type SlotRepository struct {
	store *Storage
}

// NewSlotRepository creates a SQLite backed slot repository.
func NewSlotRepository(store *Storage) *SlotRepository {
	return &SlotRepository{store: store}
}

// CreateSlot inserts a new slot template row.
func (r *SlotRepository) CreateSlot(ctx context.Context, slot persistence.Slot) error {
	if slot.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO slots (id, weekday, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		slot.ID,
		int(slot.Weekday),
		slot.StartTime,
		slot.EndTime,
		formatTime(slot.CreatedAt),
	)
	return mapError(err)
}

// GetSlot retrieves a slot template by ID.
func (r *SlotRepository) GetSlot(ctx context.Context, id string) (persistence.Slot, error) {
	query := `
		SELECT id, weekday, start_time, end_time, created_at
		FROM slots
		WHERE id = ?
	`
	return r.scanSlot(r.store.db.QueryRowContext(ctx, query, id))
}

// ListSlots returns every slot template ordered by weekday then start time.
func (r *SlotRepository) ListSlots(ctx context.Context) ([]persistence.Slot, error) {
	query := `
		SELECT id, weekday, start_time, end_time, created_at
		FROM slots
		ORDER BY weekday, start_time, id
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []persistence.Slot
	for rows.Next() {
		slot, err := r.scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// DeleteSlot removes a slot template. Slots referenced by reservations
// cannot be deleted.
func (r *SlotRepository) DeleteSlot(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *SlotRepository) scanSlot(row rowScanner) (persistence.Slot, error) {
	var (
		slot         persistence.Slot
		weekday      int
		createdAtStr string
	)

	err := row.Scan(&slot.ID, &weekday, &slot.StartTime, &slot.EndTime, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Slot{}, persistence.ErrNotFound
		}
		return persistence.Slot{}, mapError(err)
	}

	slot.Weekday = time.Weekday(weekday)
	if slot.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Slot{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	return slot, nil
}

var _ persistence.SlotRepository = (*SlotRepository)(nil)
