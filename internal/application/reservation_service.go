package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
	"github.com/example/campus-reservations/internal/recurrence"
)

// ReservationRepository captures the persistence interactions needed by the service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationRepositoryFilter) ([]Reservation, error)
	TransitionStatus(ctx context.Context, id string, from, to booking.Status, decidedAt time.Time) (Reservation, error)
	ApproveReservation(ctx context.Context, id string, decidedAt time.Time) (Reservation, []Reservation, error)
}

// ReservationRepositoryFilter narrows queries issued to the reservation repository.
type ReservationRepositoryFilter struct {
	UserID   string
	RoomID   string
	Status   booking.Status
	DateFrom *time.Time
	DateTo   *time.Time
}

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// SlotRegistry exposes slot template lookup operations.
type SlotRegistry interface {
	GetSlot(ctx context.Context, id string) (Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
}

// ReservationService is the scheduling and authorization engine: it gates
// every reservation state transition by role and ownership, matches dates
// to the weekly slot template, and resolves approval conflicts.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomCatalog
	slots        SlotRegistry
	expander     *recurrence.Engine
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, rooms RoomCatalog, slots SlotRegistry, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, rooms, slots, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, rooms RoomCatalog, slots SlotRegistry, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		slots:        slots,
		expander:     recurrence.NewEngine(),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// Create validates a reservation request and inserts it in the Pending
// state. Several pending requests may coexist for the same room, slot, and
// date; the conflict is resolved when one of them is approved.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	principal := params.Principal
	input := params.Input

	logger := s.loggerWith(ctx, "Create",
		"principal_id", principal.UserID,
		"room_id", input.RoomID,
		"slot_id", input.SlotID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if !Allow(principal.Role, ActionCreateReservation, true) {
		err = ErrUnauthorized
		return
	}

	var room Room
	room, err = s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	var slot Slot
	slot, err = s.slots.GetSlot(ctx, input.SlotID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	vErr := &ValidationError{}
	if room.Status != booking.RoomAvailable {
		vErr.add("room_id", "room is not available")
	}
	for _, violation := range booking.CheckDate(input.Date, slot.Weekday, s.now()) {
		switch violation {
		case booking.ViolationWeekend:
			vErr.add("date", "weekend dates cannot be reserved")
		case booking.ViolationWeekdayMismatch:
			vErr.add("weekday", "date does not fall on the slot's weekday")
		case booking.ViolationPastDate:
			vErr.add("date", "date must not be in the past")
		}
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	reservation = Reservation{
		ID:        s.idGenerator(),
		RoomID:    room.ID,
		SlotID:    slot.ID,
		UserID:    principal.UserID,
		Date:      booking.NormalizeDate(input.Date),
		Status:    booking.StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	var persisted Reservation
	persisted, err = s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	reservation = persisted
	return
}

// Approve transitions a pending reservation to Approved and rejects every
// competing pending reservation on the same room, slot, and date. The
// approval and the cascade of rejections are one atomic unit.
func (s *ReservationService) Approve(ctx context.Context, principal Principal, reservationID string) (result ApproveResult, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Approve",
		"principal_id", principal.UserID,
		"reservation_id", reservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to approve reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rejected_count", len(result.Rejected)).InfoContext(ctx, "reservation approved")
	}()

	if !Allow(principal.Role, ActionApproveReservation, false) {
		err = ErrUnauthorized
		return
	}

	var existing Reservation
	existing, err = s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}
	if !booking.CanTransition(existing.Status, booking.StatusApproved) {
		err = ErrInvalidTransition
		return
	}

	approved, rejected, err := s.reservations.ApproveReservation(ctx, reservationID, s.now())
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	result = ApproveResult{Approved: approved, Rejected: rejected}
	return
}

// Reject transitions a pending reservation to Rejected.
func (s *ReservationService) Reject(ctx context.Context, principal Principal, reservationID string) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Reject",
		"principal_id", principal.UserID,
		"reservation_id", reservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reject reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation rejected")
	}()

	if !Allow(principal.Role, ActionRejectReservation, false) {
		err = ErrUnauthorized
		return
	}

	var existing Reservation
	existing, err = s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}
	if !booking.CanTransition(existing.Status, booking.StatusRejected) {
		err = ErrInvalidTransition
		return
	}

	reservation, err = s.reservations.TransitionStatus(ctx, reservationID, booking.StatusPending, booking.StatusRejected, s.now())
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}
	return
}

// Cancel withdraws a pending reservation. Only the owning user may cancel,
// regardless of role; administrators act on others' reservations through
// approve and reject only.
func (s *ReservationService) Cancel(ctx context.Context, principal Principal, reservationID string) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Cancel",
		"principal_id", principal.UserID,
		"reservation_id", reservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	var existing Reservation
	existing, err = s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	isOwner := existing.UserID == principal.UserID
	if !Allow(principal.Role, ActionCancelReservation, isOwner) {
		err = ErrUnauthorized
		return
	}
	if !booking.CanTransition(existing.Status, booking.StatusCancelled) {
		err = ErrInvalidTransition
		return
	}

	reservation, err = s.reservations.TransitionStatus(ctx, reservationID, booking.StatusPending, booking.StatusCancelled, s.now())
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}
	return
}

// List enumerates reservations visible to the requesting principal.
// Administrators see everything; other users only their own records. The
// scoping is applied here, not left to the caller.
func (s *ReservationService) List(ctx context.Context, params ListReservationsParams) (reservations []Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	principal := params.Principal
	logger := s.loggerWith(ctx, "List",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(reservations)).InfoContext(ctx, "reservations listed")
	}()

	filter := ReservationRepositoryFilter{
		RoomID:   params.RoomID,
		Status:   params.Status,
		DateFrom: params.DateFrom,
		DateTo:   params.DateTo,
	}
	if !principal.IsAdministrator() {
		filter.UserID = principal.UserID
	}

	reservations, err = s.reservations.ListReservations(ctx, filter)
	if err != nil {
		if isNotFoundError(err) {
			reservations, err = nil, nil
			return
		}
		err = mapReservationRepoError(err)
		return
	}
	return
}

// defaultAvailabilityDays is the window queried when the caller supplies
// no bounds: the current day plus thirteen, two full weeks.
const defaultAvailabilityDays = 13

// Availability expands every slot template into the concrete dates it
// occurs on within the queried range, and marks each date as open or
// taken for the given room. A date is open when the room is available,
// the date is not in the past, and no approved reservation holds the
// room, slot, and date triple.
func (s *ReservationService) Availability(ctx context.Context, params AvailabilityParams) (availability RoomAvailability, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Availability",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute availability", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("slot_count", len(availability.Slots)).InfoContext(ctx, "availability computed")
	}()

	today := booking.NormalizeDate(s.now())
	from := booking.NormalizeDate(params.From)
	if params.From.IsZero() {
		from = today
	}
	to := booking.NormalizeDate(params.To)
	if params.To.IsZero() {
		to = from.AddDate(0, 0, defaultAvailabilityDays)
	}

	if _, err = s.expander.Occurrences(from.Weekday(), from, to); err != nil {
		vErr := &ValidationError{}
		switch {
		case errors.Is(err, recurrence.ErrInvalidRange):
			vErr.add("to", "range end must not precede range start")
		case errors.Is(err, recurrence.ErrRangeTooWide):
			vErr.add("to", fmt.Sprintf("range must span fewer than %d days", recurrence.DefaultMaxRangeDays))
		default:
			return
		}
		err = vErr
		return
	}

	var room Room
	room, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	var slots []Slot
	slots, err = s.slots.ListSlots(ctx)
	if err != nil {
		if !isNotFoundError(err) {
			err = mapReservationRepoError(err)
			return
		}
		slots, err = nil, nil
	}

	var approved []Reservation
	approved, err = s.reservations.ListReservations(ctx, ReservationRepositoryFilter{
		RoomID:   room.ID,
		Status:   booking.StatusApproved,
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		if !isNotFoundError(err) {
			err = mapReservationRepoError(err)
			return
		}
		approved, err = nil, nil
	}

	taken := make(map[string]struct{}, len(approved))
	for _, reservation := range approved {
		taken[booking.TripleKey(reservation.RoomID, reservation.SlotID, reservation.Date)] = struct{}{}
	}

	roomBookable := room.Status == booking.RoomAvailable
	availability = RoomAvailability{Room: room, From: from, To: to}
	for _, slot := range slots {
		var dates []time.Time
		dates, err = s.expander.Occurrences(slot.Weekday, from, to)
		if err != nil {
			return
		}

		entry := SlotAvailability{Slot: slot, Dates: make([]DateAvailability, 0, len(dates))}
		for _, date := range dates {
			_, isTaken := taken[booking.TripleKey(room.ID, slot.ID, date)]
			entry.Dates = append(entry.Dates, DateAvailability{
				Date:      date,
				Available: roomBookable && !isTaken && !date.Before(today),
			})
		}
		availability.Slots = append(availability.Slots, entry)
	}
	return
}

func mapReservationRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrConflict
	case errors.Is(err, persistence.ErrStaleState):
		return ErrInvalidTransition
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("date", "reservation violates a storage constraint")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
