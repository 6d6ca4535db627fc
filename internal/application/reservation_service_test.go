package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

type reservationRepoStub struct {
	reservations map[string]Reservation
	created      []Reservation
	createErr    error
	listErr      error
	approveErr   error
	transitioned []string
	transitErr   error
	rejectedIDs  []string
}

func (s *reservationRepoStub) CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if s.createErr != nil {
		return Reservation{}, s.createErr
	}
	s.created = append(s.created, reservation)
	return reservation, nil
}

func (s *reservationRepoStub) GetReservation(ctx context.Context, id string) (Reservation, error) {
	reservation, ok := s.reservations[id]
	if !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

func (s *reservationRepoStub) ListReservations(ctx context.Context, filter ReservationRepositoryFilter) ([]Reservation, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Reservation
	for _, reservation := range s.reservations {
		reservation := reservation
		if filter.UserID != "" && reservation.UserID != filter.UserID {
			continue
		}
		if filter.RoomID != "" && reservation.RoomID != filter.RoomID {
			continue
		}
		if filter.Status != "" && reservation.Status != filter.Status {
			continue
		}
		out = append(out, reservation)
	}
	return out, nil
}

func (s *reservationRepoStub) TransitionStatus(ctx context.Context, id string, from, to booking.Status, decidedAt time.Time) (Reservation, error) {
	if s.transitErr != nil {
		return Reservation{}, s.transitErr
	}
	reservation, ok := s.reservations[id]
	if !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	if reservation.Status != from {
		return Reservation{}, persistence.ErrStaleState
	}
	reservation.Status = to
	reservation.UpdatedAt = decidedAt
	s.reservations[id] = reservation
	s.transitioned = append(s.transitioned, id)
	return reservation, nil
}

func (s *reservationRepoStub) ApproveReservation(ctx context.Context, id string, decidedAt time.Time) (Reservation, []Reservation, error) {
	if s.approveErr != nil {
		return Reservation{}, nil, s.approveErr
	}
	target, ok := s.reservations[id]
	if !ok {
		return Reservation{}, nil, persistence.ErrNotFound
	}
	if target.Status != booking.StatusPending {
		return Reservation{}, nil, persistence.ErrStaleState
	}
	key := booking.TripleKey(target.RoomID, target.SlotID, target.Date)
	var rejected []Reservation
	for rid, other := range s.reservations {
		if rid == id {
			continue
		}
		if booking.TripleKey(other.RoomID, other.SlotID, other.Date) != key {
			continue
		}
		if other.Status == booking.StatusApproved {
			return Reservation{}, nil, persistence.ErrConflict
		}
		if other.Status == booking.StatusPending {
			other.Status = booking.StatusRejected
			other.UpdatedAt = decidedAt
			s.reservations[rid] = other
			s.rejectedIDs = append(s.rejectedIDs, rid)
			rejected = append(rejected, other)
		}
	}
	target.Status = booking.StatusApproved
	target.UpdatedAt = decidedAt
	s.reservations[id] = target
	return target, rejected, nil
}

type roomCatalogStub struct {
	rooms map[string]Room
	err   error
}

func (s *roomCatalogStub) GetRoom(ctx context.Context, id string) (Room, error) {
	if s.err != nil {
		return Room{}, s.err
	}
	room, ok := s.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return room, nil
}

type slotRegistryStub struct {
	slots map[string]Slot
	err   error
}

func (s *slotRegistryStub) GetSlot(ctx context.Context, id string) (Slot, error) {
	if s.err != nil {
		return Slot{}, s.err
	}
	slot, ok := s.slots[id]
	if !ok {
		return Slot{}, persistence.ErrNotFound
	}
	return slot, nil
}

func (s *slotRegistryStub) ListSlots(ctx context.Context) ([]Slot, error) {
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Slot, 0, len(ids))
	for _, id := range ids {
		id := id
		out = append(out, s.slots[id])
	}
	return out, nil
}

// fixedNow is a Monday so weekday checks against mondaySlot succeed.
func fixedNow() time.Time {
	return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
}

func mondaySlot() Slot {
	return Slot{ID: "slot-1", Weekday: time.Monday, StartTime: "08:00", EndTime: "10:00"}
}

func availableRoom() Room {
	return Room{ID: "room-1", Name: "A-101", Capacity: 30, Status: booking.RoomAvailable}
}

func teacherPrincipal() Principal {
	return Principal{UserID: "user-1", Role: booking.RoleTeacher}
}

func adminPrincipal() Principal {
	return Principal{UserID: "admin-1", Role: booking.RoleAdministrator}
}

func newReservationService(repo *reservationRepoStub, rooms *roomCatalogStub, slots *slotRegistryStub) *ReservationService {
	seq := 0
	idGen := func() string {
		seq++
		return fmt.Sprintf("reservation-%d", seq)
	}
	return NewReservationService(repo, rooms, slots, idGen, fixedNow)
}

func TestReservationService_Create_InsertsPending(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	created, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != booking.StatusPending {
		t.Fatalf("expected Pending status, got %s", created.Status)
	}
	if created.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %s", created.UserID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted reservation, got %d", len(repo.created))
	}
}

func TestReservationService_Create_OwnerComesFromPrincipal(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	created, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: adminPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.UserID != "admin-1" {
		t.Fatalf("expected owner admin-1, got %s", created.UserID)
	}
}

func TestReservationService_Create_RejectsWeekendDate(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	// 2024-06-08 is a Saturday.
	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["date"]; !ok {
		t.Fatalf("expected date validation error, got %v", vErr.FieldErrors)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no persisted reservation, got %d", len(repo.created))
	}
}

func TestReservationService_Create_RejectsWeekdayMismatch(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	// 2024-06-11 is a Tuesday; the slot recurs on Mondays.
	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
		},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["weekday"]; !ok {
		t.Fatalf("expected weekday validation error, got %v", vErr.FieldErrors)
	}
}

func TestReservationService_Create_RejectsPastDate(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	// 2024-05-27 is a Monday before the fixed clock.
	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC),
		},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["date"]; !ok {
		t.Fatalf("expected date validation error, got %v", vErr.FieldErrors)
	}
}

func TestReservationService_Create_RejectsUnavailableRoom(t *testing.T) {
	t.Parallel()

	room := availableRoom()
	room.Status = booking.RoomMaintenance
	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input: ReservationInput{
			RoomID: "room-1",
			SlotID: "slot-1",
			Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["room_id"]; !ok {
		t.Fatalf("expected room_id validation error, got %v", vErr.FieldErrors)
	}
}

func TestReservationService_Create_UnknownRoomAndSlot(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input:     ReservationInput{RoomID: "room-missing", SlotID: "slot-1", Date: date},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateReservationParams{
		Principal: teacherPrincipal(),
		Input:     ReservationInput{RoomID: "room-1", SlotID: "slot-missing", Date: date},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown slot, got %v", err)
	}
}

func pendingReservation(id, userID string, date time.Time) Reservation {
	return Reservation{
		ID:     id,
		RoomID: "room-1",
		SlotID: "slot-1",
		UserID: userID,
		Date:   date,
		Status: booking.StatusPending,
	}
}

func TestReservationService_Approve_RejectsCompetitors(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	otherDate := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
		"res-2": pendingReservation("res-2", "user-2", date),
		"res-3": pendingReservation("res-3", "user-3", otherDate),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	result, err := svc.Approve(context.Background(), adminPrincipal(), "res-1")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if result.Approved.Status != booking.StatusApproved {
		t.Fatalf("expected Approved status, got %s", result.Approved.Status)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].ID != "res-2" {
		t.Fatalf("expected res-2 rejected, got %+v", result.Rejected)
	}
	if repo.reservations["res-3"].Status != booking.StatusPending {
		t.Fatalf("reservation on another date should stay Pending, got %s", repo.reservations["res-3"].Status)
	}
}

func TestReservationService_Approve_LoserCannotBeApproved(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
		"res-2": pendingReservation("res-2", "user-2", date),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	if _, err := svc.Approve(context.Background(), adminPrincipal(), "res-1"); err != nil {
		t.Fatalf("first Approve returned error: %v", err)
	}

	_, err := svc.Approve(context.Background(), adminPrincipal(), "res-2")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for the rejected loser, got %v", err)
	}
}

func TestReservationService_Approve_RequiresAdministrator(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	_, err := svc.Approve(context.Background(), teacherPrincipal(), "res-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.reservations["res-1"].Status != booking.StatusPending {
		t.Fatalf("reservation should stay Pending after denied approval")
	}
}

func TestReservationService_Approve_MapsRepositoryConflict(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{
		reservations: map[string]Reservation{
			"res-1": pendingReservation("res-1", "user-1", date),
		},
		approveErr: persistence.ErrConflict,
	}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	_, err := svc.Approve(context.Background(), adminPrincipal(), "res-1")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestReservationService_Approve_UnknownReservation(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	_, err := svc.Approve(context.Background(), adminPrincipal(), "res-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReservationService_Reject_RequiresAdministrator(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	if _, err := svc.Reject(context.Background(), teacherPrincipal(), "res-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	rejected, err := svc.Reject(context.Background(), adminPrincipal(), "res-1")
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Status != booking.StatusRejected {
		t.Fatalf("expected Rejected status, got %s", rejected.Status)
	}
}

func TestReservationService_Reject_TerminalState(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	cancelled := pendingReservation("res-1", "user-1", date)
	cancelled.Status = booking.StatusCancelled
	repo := &reservationRepoStub{reservations: map[string]Reservation{"res-1": cancelled}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	_, err := svc.Reject(context.Background(), adminPrincipal(), "res-1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReservationService_Cancel_OwnerOnly(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	if _, err := svc.Cancel(context.Background(), Principal{UserID: "user-2", Role: booking.RoleTeacher}, "res-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}

	// Administrators have no cancellation override either.
	if _, err := svc.Cancel(context.Background(), adminPrincipal(), "res-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for administrator non-owner, got %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), teacherPrincipal(), "res-1")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != booking.StatusCancelled {
		t.Fatalf("expected Cancelled status, got %s", cancelled.Status)
	}
}

func TestReservationService_Cancel_ApprovedIsFinal(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	approved := pendingReservation("res-1", "user-1", date)
	approved.Status = booking.StatusApproved
	repo := &reservationRepoStub{reservations: map[string]Reservation{"res-1": approved}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	_, err := svc.Cancel(context.Background(), teacherPrincipal(), "res-1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReservationService_List_ScopesTeachersToOwnRecords(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &reservationRepoStub{reservations: map[string]Reservation{
		"res-1": pendingReservation("res-1", "user-1", date),
		"res-2": pendingReservation("res-2", "user-2", date),
	}}
	svc := newReservationService(repo, &roomCatalogStub{}, &slotRegistryStub{})

	own, err := svc.List(context.Background(), ListReservationsParams{Principal: teacherPrincipal()})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(own) != 1 || own[0].UserID != "user-1" {
		t.Fatalf("expected only user-1 reservations, got %+v", own)
	}

	all, err := svc.List(context.Background(), ListReservationsParams{Principal: adminPrincipal()})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected administrator to see 2 reservations, got %d", len(all))
	}
}

func TestReservationService_Availability_MarksApprovedDatesTaken(t *testing.T) {
	t.Parallel()

	taken := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	approved := pendingReservation("res-1", "user-2", taken)
	approved.Status = booking.StatusApproved
	repo := &reservationRepoStub{reservations: map[string]Reservation{"res-1": approved}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	availability, err := svc.Availability(context.Background(), AvailabilityParams{
		Principal: teacherPrincipal(),
		RoomID:    "room-1",
	})
	if err != nil {
		t.Fatalf("Availability returned error: %v", err)
	}

	if availability.Room.ID != "room-1" {
		t.Fatalf("unexpected room: %+v", availability.Room)
	}
	if len(availability.Slots) != 1 {
		t.Fatalf("expected 1 slot entry, got %d", len(availability.Slots))
	}

	dates := availability.Slots[0].Dates
	if len(dates) != 2 {
		t.Fatalf("expected 2 Mondays in the default window, got %d", len(dates))
	}
	if !dates[0].Date.Equal(fixedNow().Truncate(24 * time.Hour)) {
		t.Fatalf("expected the window to open today, got %s", dates[0].Date)
	}
	if !dates[0].Available {
		t.Fatalf("expected the first Monday to be open, got %+v", dates[0])
	}
	if dates[1].Available {
		t.Fatalf("expected the approved Monday to be taken, got %+v", dates[1])
	}
}

func TestReservationService_Availability_UnavailableRoomBlocksEveryDate(t *testing.T) {
	t.Parallel()

	maintenance := availableRoom()
	maintenance.Status = booking.RoomMaintenance
	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": maintenance}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	availability, err := svc.Availability(context.Background(), AvailabilityParams{
		Principal: teacherPrincipal(),
		RoomID:    "room-1",
	})
	if err != nil {
		t.Fatalf("Availability returned error: %v", err)
	}
	for _, entry := range availability.Slots {
		entry := entry
		for _, date := range entry.Dates {
			date := date
			if date.Available {
				t.Fatalf("expected every date blocked for a maintenance room, got %+v", date)
			}
		}
	}
}

func TestReservationService_Availability_PastDatesAreClosed(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	availability, err := svc.Availability(context.Background(), AvailabilityParams{
		Principal: teacherPrincipal(),
		RoomID:    "room-1",
		From:      time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Availability returned error: %v", err)
	}

	dates := availability.Slots[0].Dates
	if len(dates) != 2 {
		t.Fatalf("expected 2 Mondays, got %d", len(dates))
	}
	if dates[0].Available {
		t.Fatalf("expected the past Monday to be closed, got %+v", dates[0])
	}
	if !dates[1].Available {
		t.Fatalf("expected the current Monday to be open, got %+v", dates[1])
	}
}

func TestReservationService_Availability_ValidatesRange(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservations: map[string]Reservation{}}
	rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": availableRoom()}}
	slots := &slotRegistryStub{slots: map[string]Slot{"slot-1": mondaySlot()}}
	svc := newReservationService(repo, rooms, slots)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
	}{
		{
			name: "inverted range",
			from: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "range beyond the expansion limit",
			from: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Availability(context.Background(), AvailabilityParams{
				Principal: teacherPrincipal(),
				RoomID:    "room-1",
				From:      tc.from,
				To:        tc.to,
			})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors["to"]; !ok {
				t.Fatalf("expected to validation error, got %v", vErr.FieldErrors)
			}
		})
	}
}

func TestReservationService_Availability_UnknownRoom(t *testing.T) {
	t.Parallel()

	svc := newReservationService(
		&reservationRepoStub{reservations: map[string]Reservation{}},
		&roomCatalogStub{rooms: map[string]Room{}},
		&slotRegistryStub{slots: map[string]Slot{}},
	)

	_, err := svc.Availability(context.Background(), AvailabilityParams{
		Principal: teacherPrincipal(),
		RoomID:    "room-missing",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
