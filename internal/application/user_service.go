package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// UserRepository captures the persistence interactions needed by the service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user User, passwordHash string) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

const minPasswordLength = 8

// UserService manages institutional accounts. Self-registration accepts a
// role choice and defaults to Teacher; later role changes are
// administrator only.
type UserService struct {
	users       UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for user operations.
func NewUserService(users UserRepository, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(users UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register creates a self-service account. The caller picks the role at
// registration; when none is supplied the account becomes a Teacher.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Register", "email", params.Input.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	input := params.Input
	if input.Role == "" {
		input.Role = booking.RoleTeacher
	}
	user, err = s.createUser(ctx, input)
	return
}

// Create registers an account with an explicit role. Administrator only.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"principal_id", params.Principal.UserID,
		"email", params.Input.Email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	if !Allow(params.Principal.Role, ActionEditUser, false) {
		err = ErrUnauthorized
		return
	}

	input := params.Input
	if input.Role == "" {
		input.Role = booking.RoleTeacher
	}
	user, err = s.createUser(ctx, input)
	return
}

func (s *UserService) createUser(ctx context.Context, input UserInput) (User, error) {
	input, err := validateUserInput(input, true)
	if err != nil {
		return User{}, err
	}

	hash, err := CreatePasswordHash(input.Password, DefaultArgon2idParams)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := s.now()
	user := User{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	persisted, err := s.users.CreateUser(ctx, user, hash)
	if err != nil {
		return User{}, mapUserRepoError(err)
	}
	return persisted, nil
}

// Get returns a single user. Administrators may read any account; other
// principals only their own.
func (s *UserService) Get(ctx context.Context, principal Principal, userID string) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Get",
		"principal_id", principal.UserID,
		"user_id", userID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to get user", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if !principal.IsAdministrator() && principal.UserID != userID {
		err = ErrUnauthorized
		return
	}

	user, err = s.users.GetUser(ctx, userID)
	if err != nil {
		err = mapUserRepoError(err)
		return
	}
	return
}

// List enumerates every account. Administrator only.
func (s *UserService) List(ctx context.Context, principal Principal) (users []User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "List", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list users", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(users)).InfoContext(ctx, "users listed")
	}()

	if !Allow(principal.Role, ActionListUsers, false) {
		err = ErrUnauthorized
		return
	}

	users, err = s.users.ListUsers(ctx)
	if err != nil {
		if isNotFoundError(err) {
			users, err = nil, nil
			return
		}
		err = mapUserRepoError(err)
		return
	}
	return
}

// Update replaces a user's attributes. Administrator only. An empty
// password keeps the stored hash.
func (s *UserService) Update(ctx context.Context, params UpdateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	if !Allow(params.Principal.Role, ActionEditUser, false) {
		err = ErrUnauthorized
		return
	}

	var existing User
	existing, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		err = mapUserRepoError(err)
		return
	}

	var input UserInput
	input, err = validateUserInput(params.Input, false)
	if err != nil {
		return
	}

	hash := ""
	if input.Password != "" {
		hash, err = CreatePasswordHash(input.Password, DefaultArgon2idParams)
		if err != nil {
			err = fmt.Errorf("hash password: %w", err)
			return
		}
	}

	existing.Name = input.Name
	existing.Email = input.Email
	if input.Role != "" {
		existing.Role = input.Role
	}
	existing.UpdatedAt = s.now()

	user, err = s.users.UpdateUser(ctx, existing, hash)
	if err != nil {
		err = mapUserRepoError(err)
		return
	}
	return
}

// Delete removes an account. Administrator only; deleting oneself is
// refused so the last administrator cannot lock everyone out.
func (s *UserService) Delete(ctx context.Context, principal Principal, userID string) (err error) {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete",
		"principal_id", principal.UserID,
		"user_id", userID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	if !Allow(principal.Role, ActionDeleteUser, false) {
		err = ErrUnauthorized
		return
	}
	if principal.UserID == userID {
		vErr := &ValidationError{}
		vErr.add("user_id", "an account cannot delete itself")
		err = vErr
		return
	}

	if err = s.users.DeleteUser(ctx, userID); err != nil {
		err = mapUserRepoError(err)
		return
	}
	return
}

func validateUserInput(input UserInput, passwordRequired bool) (UserInput, error) {
	vErr := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, parseErr := mail.ParseAddress(input.Email); parseErr != nil {
		vErr.add("email", "email is not a valid address")
	}

	if input.Password == "" {
		if passwordRequired {
			vErr.add("password", "password is required")
		}
	} else if len(input.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if input.Role != "" {
		if _, parseErr := booking.ParseRole(string(input.Role)); parseErr != nil {
			vErr.add("role", "role must be Teacher or Administrator")
		}
	}

	if vErr.HasErrors() {
		return UserInput{}, vErr
	}
	return input, nil
}

func mapUserRepoError(err error) error {
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
		vErr.add("role", "user violates a storage constraint")
		return vErr
	}
	return err
}
