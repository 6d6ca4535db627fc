package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using
// SQLite. Reservations are append-and-transition only: no delete statement
// exists for the table.
type ReservationRepository struct {
	store *Storage
}

// NewReservationRepository creates a SQLite backed reservation repository.
func NewReservationRepository(store *Storage) *ReservationRepository {
	return &ReservationRepository{store: store}
}

// CreateReservation inserts a new reservation row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO reservations (id, room_id, slot_id, user_id, date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.RoomID,
		reservation.SlotID,
		reservation.UserID,
		booking.FormatDate(reservation.Date),
		string(reservation.Status),
		formatTime(reservation.CreatedAt),
		formatTime(reservation.UpdatedAt),
	)
	return mapError(err)
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	query := selectReservation + ` WHERE id = ?`
	return scanReservation(r.store.db.QueryRowContext(ctx, query, id))
}

// ListReservations returns reservations matching the filter, ordered by
// date then creation time.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query := selectReservation + ` WHERE 1 = 1`
	args := make([]any, 0, 5)

	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.RoomID != "" {
		query += ` AND room_id = ?`
		args = append(args, filter.RoomID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.DateFrom != nil {
		query += ` AND date >= ?`
		args = append(args, booking.FormatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query += ` AND date <= ?`
		args = append(args, booking.FormatDate(*filter.DateTo))
	}
	query += ` ORDER BY date, created_at, id`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

// TransitionStatus moves a reservation between statuses as a guarded
// write. The WHERE clause carries the expected source status, so a
// concurrent transition loses cleanly with ErrStaleState instead of
// overwriting a terminal state.
func (r *ReservationRepository) TransitionStatus(ctx context.Context, id string, from, to booking.Status, decidedAt time.Time) (persistence.Reservation, error) {
	var updated persistence.Reservation

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(to), formatTime(decidedAt), id, string(from),
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			// Distinguish a missing row from a stale status.
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE id = ?`, id).Scan(&exists)
			if err != nil {
				return mapError(err)
			}
			if exists == 0 {
				return persistence.ErrNotFound
			}
			return persistence.ErrStaleState
		}

		updated, err = scanReservation(tx.QueryRowContext(ctx, selectReservation+` WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return persistence.Reservation{}, err
	}
	return updated, nil
}

// ApproveReservation approves the identified reservation and rejects every
// other pending reservation on the same (room, slot, date) triple as one
// transaction. The partial unique index on approved triples backs the
// invariant even if a competing transaction slips through the checks.
func (r *ReservationRepository) ApproveReservation(ctx context.Context, id string, decidedAt time.Time) (persistence.Reservation, []persistence.Reservation, error) {
	var (
		approved persistence.Reservation
		rejected []persistence.Reservation
	)

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		target, err := scanReservation(tx.QueryRowContext(ctx, selectReservation+` WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if target.Status != booking.StatusPending {
			return persistence.ErrStaleState
		}

		var approvedCount int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations
			 WHERE room_id = ? AND slot_id = ? AND date = ? AND status = ? AND id <> ?`,
			target.RoomID, target.SlotID, booking.FormatDate(target.Date), string(booking.StatusApproved), id,
		).Scan(&approvedCount)
		if err != nil {
			return mapError(err)
		}
		if approvedCount > 0 {
			return persistence.ErrConflict
		}

		decided := formatTime(decidedAt)

		result, err := tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(booking.StatusApproved), decided, id, string(booking.StatusPending),
		)
		if err != nil {
			// The partial unique index turns a racing double approval
			// into a constraint failure here.
			if mapped := mapError(err); mapped == persistence.ErrDuplicate {
				return persistence.ErrConflict
			}
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrStaleState
		}

		// First-approved-wins: competing pending requests on the triple
		// are resolved to Rejected in the same transaction.
		rows, err := tx.QueryContext(ctx,
			selectReservation+` WHERE room_id = ? AND slot_id = ? AND date = ? AND status = ? AND id <> ? ORDER BY created_at, id`,
			target.RoomID, target.SlotID, booking.FormatDate(target.Date), string(booking.StatusPending), id,
		)
		if err != nil {
			return mapError(err)
		}
		for rows.Next() {
			loser, err := scanReservation(rows)
			if err != nil {
				rows.Close()
				return err
			}
			rejected = append(rejected, loser)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for i := range rejected {
			if _, err := tx.ExecContext(ctx,
				`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
				string(booking.StatusRejected), decided, rejected[i].ID,
			); err != nil {
				return mapError(err)
			}
			rejected[i].Status = booking.StatusRejected
			rejected[i].UpdatedAt = decidedAt.UTC()
		}

		approved, err = scanReservation(tx.QueryRowContext(ctx, selectReservation+` WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return persistence.Reservation{}, nil, err
	}
	return approved, rejected, nil
}

const selectReservation = `
	SELECT id, room_id, slot_id, user_id, date, status, created_at, updated_at
	FROM reservations
`

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation                persistence.Reservation
		dateStr, status            string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(&reservation.ID, &reservation.RoomID, &reservation.SlotID, &reservation.UserID, &dateStr, &status, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, mapError(err)
	}

	reservation.Status = booking.Status(status)
	if reservation.Date, err = booking.ParseDate(dateStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse date: %w", err)
	}
	if reservation.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if reservation.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return reservation, nil
}

var _ persistence.ReservationRepository = (*ReservationRepository)(nil)
