package ports

import (
	"context"

	"github.com/mci/portal-api/internal/core/domain"
)

// Credentials is what a client posts to an authentication provider.
type Credentials struct {
	Email    string
	Password string
	RemoteIP string
}

// AuthProvider authenticates credentials and returns the identity to freeze
// into a session. A nil session with domain.ErrInvalidCredentials is the
// only failure callers may show to the client.
type AuthProvider interface {
	ID() string
	Authenticate(ctx context.Context, creds Credentials) (*domain.Session, error)
}

// SessionIssuer mints and validates stateless session tokens.
type SessionIssuer interface {
	Issue(s domain.Session) (string, error)
	Validate(token string) (*domain.Session, error)
}

// AuthService drives the login flow and resolves sessions for handlers.
type AuthService interface {
	Login(ctx context.Context, providerID string, creds Credentials) (string, *domain.Session, error)
	Logout(ctx context.Context, token string) error
	// Resolve validates the token and rejects revoked sessions.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// AuditSink receives login attempts. Record must never block.
type AuditSink interface {
	Record(attempt domain.LoginAttempt)
}

// AttemptRepository persists login attempts for later inspection.
type AttemptRepository interface {
	InsertAttempt(ctx context.Context, attempt domain.LoginAttempt) error
}
