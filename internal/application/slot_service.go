package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
	"github.com/example/campus-reservations/internal/timetable"
)

// SlotRepository captures the persistence interactions needed by the service.
type SlotRepository interface {
	CreateSlot(ctx context.Context, slot Slot) (Slot, error)
	GetSlot(ctx context.Context, id string) (Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
}

// SlotService manages the weekly slot template registry. Slots are
// immutable once created; there is no update or delete because existing
// reservations reference them by ID.
type SlotService struct {
	slots       SlotRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSlotService wires dependencies for slot operations.
func NewSlotService(slots SlotRepository, idGenerator func() string, now func() time.Time) *SlotService {
	return NewSlotServiceWithLogger(slots, idGenerator, now, nil)
}

// NewSlotServiceWithLogger constructs a slot service with a specified logger.
func NewSlotServiceWithLogger(slots SlotRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SlotService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SlotService{
		slots:       slots,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SlotService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SlotService", operation, attrs...)
}

// List returns every slot ordered by weekday and start time.
func (s *SlotService) List(ctx context.Context) (slots []Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "List")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list slots", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(slots)).InfoContext(ctx, "slots listed")
	}()

	slots, err = s.slots.ListSlots(ctx)
	if err != nil {
		if isNotFoundError(err) {
			slots, err = nil, nil
			return
		}
		err = mapSlotRepoError(err)
		return
	}
	return
}

// Get returns a single slot by ID.
func (s *SlotService) Get(ctx context.Context, id string) (slot Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Get", "slot_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to get slot", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	slot, err = s.slots.GetSlot(ctx, id)
	if err != nil {
		err = mapSlotRepoError(err)
		return
	}
	return
}

// Create registers a new weekly slot. Administrator only. Weekend
// weekdays are rejected because reservations can never land on them, and
// the window must not overlap an existing slot on the same weekday.
func (s *SlotService) Create(ctx context.Context, params CreateSlotParams) (slot Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"principal_id", params.Principal.UserID,
		"weekday", int(params.Input.Weekday),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create slot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("slot_id", slot.ID).InfoContext(ctx, "slot created")
	}()

	if !Allow(params.Principal.Role, ActionEditSlot, false) {
		err = ErrUnauthorized
		return
	}

	input := params.Input
	vErr := &ValidationError{}
	if input.Weekday < time.Sunday || input.Weekday > time.Saturday {
		vErr.add("weekday", "weekday must be between 0 and 6")
	} else if input.Weekday == time.Sunday || input.Weekday == time.Saturday {
		vErr.add("weekday", "weekend slots cannot be reserved")
	}
	if !booking.ClockTimeValid(input.StartTime) {
		vErr.add("start_time", "start time must use the HH:MM format")
	}
	if !booking.ClockTimeValid(input.EndTime) {
		vErr.add("end_time", "end time must use the HH:MM format")
	}
	if !vErr.HasErrors() && !booking.ClockTimeBefore(input.StartTime, input.EndTime) {
		vErr.add("end_time", "end time must be after start time")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var existing []Slot
	existing, err = s.slots.ListSlots(ctx)
	if err != nil && !isNotFoundError(err) {
		err = mapSlotRepoError(err)
		return
	}
	err = nil
	windows := make([]timetable.Window, 0, len(existing))
	for _, current := range existing {
		windows = append(windows, timetable.Window{
			SlotID:  current.ID,
			Weekday: current.Weekday,
			Start:   current.StartTime,
			End:     current.EndTime,
		})
	}
	candidate := timetable.Window{
		Weekday: input.Weekday,
		Start:   input.StartTime,
		End:     input.EndTime,
	}
	if overlaps := timetable.DetectOverlaps(windows, candidate); len(overlaps) > 0 {
		clash := overlaps[0]
		vErr.add("start_time", fmt.Sprintf("window overlaps slot %s (%s %s-%s)", clash.WithSlotID, clash.Weekday, clash.Start, clash.End))
		err = vErr
		return
	}

	slot = Slot{
		ID:        s.idGenerator(),
		Weekday:   input.Weekday,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: s.now(),
	}

	var persisted Slot
	persisted, err = s.slots.CreateSlot(ctx, slot)
	if err != nil {
		err = mapSlotRepoError(err)
		return
	}

	slot = persisted
	return
}

func mapSlotRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("end_time", "slot violates a storage constraint")
		return vErr
	}
	return err
}
