package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/persistence"
)

// CredentialStore resolves login credentials for authentication.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// SessionRepository captures the persistence interactions needed by the service.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// DefaultSessionTTL bounds how long a session token stays valid without a refresh.
const DefaultSessionTTL = 12 * time.Hour

// AuthService issues, validates, rotates, and revokes sessions. Every
// other service trusts the Principal it derives; nothing downstream reads
// identity from request payloads.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService wires dependencies for session operations.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, idGenerator, tokenGenerator func() string, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, idGenerator, tokenGenerator, now, nil)
}

// NewAuthServiceWithLogger constructs an auth service with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions SessionRepository, idGenerator, tokenGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     DefaultSessionTTL,
		logger:         defaultLogger(logger),
	}
}

// SetSessionTTL overrides the session lifetime. Zero or negative values
// restore the default.
func (s *AuthService) SetSessionTTL(ttl time.Duration) {
	if s == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s.sessionTTL = ttl
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate verifies the supplied credentials and opens a session.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials so
// the response does not reveal which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil || s.sessions == nil {
		err = fmt.Errorf("auth repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "Authenticate", "email", params.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to authenticate", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "session opened")
	}()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if isNotFoundError(err) {
			err = ErrInvalidCredentials
			return
		}
		return
	}

	if err = VerifyPassword(params.Password, creds.PasswordHash); err != nil {
		return
	}

	issuedAt := s.now()
	session := Session{
		ID:        s.idGenerator(),
		UserID:    creds.User.ID,
		Token:     s.tokenGenerator(),
		ExpiresAt: issuedAt.Add(s.sessionTTL),
		CreatedAt: issuedAt,
		UpdatedAt: issuedAt,
	}

	var persisted Session
	persisted, err = s.sessions.CreateSession(ctx, session)
	if err != nil {
		err = mapSessionRepoError(err)
		return
	}

	result = AuthenticateResult{User: creds.User, Session: persisted}
	return
}

// ValidateSession resolves a bearer token into a Principal. Expired and
// revoked tokens are reported distinctly so callers can phrase the
// challenge, but both deny access.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil || s.sessions == nil {
		err = fmt.Errorf("auth repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "ValidateSession")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to validate session", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	var session Session
	session, err = s.resolveActiveSession(ctx, token)
	if err != nil {
		return
	}

	var user User
	user, err = s.credentials.GetUser(ctx, session.UserID)
	if err != nil {
		if isNotFoundError(err) {
			err = ErrSessionRevoked
			return
		}
		return
	}

	principal = Principal{UserID: user.ID, Role: user.Role}
	return
}

// RefreshSession rotates the token of an active session and extends its
// lifetime. The old token stops working immediately.
func (s *AuthService) RefreshSession(ctx context.Context, params RefreshSessionParams) (result RefreshSessionResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RefreshSession")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to refresh session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", result.Session.ID).InfoContext(ctx, "session refreshed")
	}()

	var session Session
	session, err = s.resolveActiveSession(ctx, params.Token)
	if err != nil {
		return
	}

	refreshedAt := s.now()
	session.Token = s.tokenGenerator()
	session.ExpiresAt = refreshedAt.Add(s.sessionTTL)
	session.UpdatedAt = refreshedAt

	var persisted Session
	persisted, err = s.sessions.UpdateSession(ctx, session)
	if err != nil {
		err = mapSessionRepoError(err)
		return
	}

	result = RefreshSessionResult{Session: persisted}
	return
}

// RevokeSession invalidates a token. Revoking an already revoked or
// expired session is not an error; logout is idempotent.
func (s *AuthService) RevokeSession(ctx context.Context, token string) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "RevokeSession")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session revoked")
	}()

	if _, err = s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if isNotFoundError(err) {
			err = nil
			return
		}
		err = mapSessionRepoError(err)
		return
	}
	return
}

// PruneExpiredSessions deletes sessions whose expiry has passed. Intended
// for a periodic janitor; validation never depends on it running.
func (s *AuthService) PruneExpiredSessions(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "PruneExpiredSessions")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to prune sessions", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if err = s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		err = mapSessionRepoError(err)
		return
	}
	return
}

func (s *AuthService) resolveActiveSession(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if isNotFoundError(err) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, mapSessionRepoError(err)
	}
	if session.RevokedAt != nil {
		return Session{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

func mapSessionRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	}
	return err
}
