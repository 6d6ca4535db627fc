package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// RoomRepository captures the persistence interactions needed by the service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomService manages the room inventory. Reads are open to any
// authenticated user; writes are restricted to administrators.
type RoomService struct {
	rooms       RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomRepository, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// List returns every room, optionally narrowed by the filter.
func (s *RoomService) List(ctx context.Context, filter RoomFilter) (rooms []Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "List")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).InfoContext(ctx, "rooms listed")
	}()

	var all []Room
	all, err = s.rooms.ListRooms(ctx)
	if err != nil {
		if isNotFoundError(err) {
			rooms, err = nil, nil
			return
		}
		err = mapRoomRepoError(err)
		return
	}

	rooms = filterRooms(all, filter)
	return
}

// Get returns a single room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Get", "room_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to get room", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	room, err = s.rooms.GetRoom(ctx, id)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}
	return
}

// Create registers a new room. Administrator only.
func (s *RoomService) Create(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"principal_id", params.Principal.UserID,
		"room_name", params.Input.Name,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if !Allow(params.Principal.Role, ActionEditRoom, false) {
		err = ErrUnauthorized
		return
	}

	var input RoomInput
	input, err = validateRoomInput(params.Input)
	if err != nil {
		return
	}

	createdAt := s.now()
	room = Room{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Capacity:  input.Capacity,
		Location:  input.Location,
		Type:      input.Type,
		Status:    input.Status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	var persisted Room
	persisted, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	room = persisted
	return
}

// Update replaces a room's attributes. Administrator only.
func (s *RoomService) Update(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	if !Allow(params.Principal.Role, ActionEditRoom, false) {
		err = ErrUnauthorized
		return
	}

	var existing Room
	existing, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	var input RoomInput
	input, err = validateRoomInput(params.Input)
	if err != nil {
		return
	}

	existing.Name = input.Name
	existing.Capacity = input.Capacity
	existing.Location = input.Location
	existing.Type = input.Type
	existing.Status = input.Status
	existing.UpdatedAt = s.now()

	room, err = s.rooms.UpdateRoom(ctx, existing)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}
	return
}

// Delete removes a room. Administrator only.
func (s *RoomService) Delete(ctx context.Context, principal Principal, roomID string) (err error) {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room deleted")
	}()

	if !Allow(principal.Role, ActionEditRoom, false) {
		err = ErrUnauthorized
		return
	}

	if err = s.rooms.DeleteRoom(ctx, roomID); err != nil {
		err = mapRoomRepoError(err)
		return
	}
	return
}

func validateRoomInput(input RoomInput) (RoomInput, error) {
	vErr := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be greater than zero")
	}
	input.Location = strings.TrimSpace(input.Location)
	input.Type = strings.TrimSpace(input.Type)
	if input.Status == "" {
		input.Status = booking.RoomAvailable
	} else if _, parseErr := booking.ParseRoomStatus(string(input.Status)); parseErr != nil {
		vErr.add("status", "status must be Available, Occupied, or Maintenance")
	}

	if vErr.HasErrors() {
		return RoomInput{}, vErr
	}
	return input, nil
}

func filterRooms(rooms []Room, filter RoomFilter) []Room {
	if filter.Status == "" && filter.MinCapacity <= 0 && filter.Type == "" {
		return rooms
	}
	filtered := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if filter.Status != "" && room.Status != filter.Status {
			continue
		}
		if filter.MinCapacity > 0 && room.Capacity < filter.MinCapacity {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(room.Type, filter.Type) {
			continue
		}
		filtered = append(filtered, room)
	}
	return filtered
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrConflict
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("capacity", "room violates a storage constraint")
		return vErr
	}
	return err
}
