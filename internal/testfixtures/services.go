package testfixtures

import (
	"time"

	"github.com/example/campus-reservations/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Tokens      *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Tokens:      NewIDGenerator("token"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Tokens == nil {
		factory.Tokens = NewIDGenerator("token")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// ReservationService builds a reservation service over the given repositories.
func (f *ServiceFactory) ReservationService(reservations application.ReservationRepository, rooms application.RoomCatalog, slots application.SlotRegistry) *application.ReservationService {
	return application.NewReservationService(reservations, rooms, slots, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// RoomService builds a room service over the given repository.
func (f *ServiceFactory) RoomService(rooms application.RoomRepository) *application.RoomService {
	return application.NewRoomService(rooms, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// SlotService builds a slot service over the given repository.
func (f *ServiceFactory) SlotService(slots application.SlotRepository) *application.SlotService {
	return application.NewSlotService(slots, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// UserService builds a user service over the given repository.
func (f *ServiceFactory) UserService(users application.UserRepository) *application.UserService {
	return application.NewUserService(users, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// AuthService builds an auth service over the given stores. Tokens come from
// the deterministic token generator.
func (f *ServiceFactory) AuthService(credentials application.CredentialStore, sessions application.SessionRepository) *application.AuthService {
	return application.NewAuthService(credentials, sessions, f.IDGenerator.NextFunc(), f.Tokens.NextFunc(), f.Clock.NowFunc())
}
