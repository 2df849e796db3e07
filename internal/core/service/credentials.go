package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

// CredentialsProviderID is the provider name used in the login callback path.
const CredentialsProviderID = "credentials"

// CredentialsProvider verifies an email/password pair against the user
// records held by the content store.
type CredentialsProvider struct {
	users   ports.UserRepository
	audit   ports.AuditSink
	log     zerolog.Logger
	now     func() time.Time
	compare func(hash, password []byte) error
}

// unknownUserHash is compared against when no user matches, so an unknown
// email costs the same bcrypt work as a wrong password.
var unknownUserHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("unknown-user-placeholder"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("credentials: generate placeholder hash: %v", err))
	}
	return h
})

func NewCredentialsProvider(users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *CredentialsProvider {
	return &CredentialsProvider{
		users:   users,
		audit:   audit,
		log:     log,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

func (p *CredentialsProvider) ID() string { return CredentialsProviderID }

// Authenticate satisfies ports.AuthProvider.
func (p *CredentialsProvider) Authenticate(ctx context.Context, creds ports.Credentials) (*domain.Session, error) {
	return p.Verify(ctx, creds.Email, creds.Password, creds.RemoteIP)
}

// Verify looks up exactly one user by email and checks the password hash.
// Unknown email, wrong password and inactive accounts all yield
// domain.ErrInvalidCredentials.
func (p *CredentialsProvider) Verify(ctx context.Context, email, password, remoteIP string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		p.record(email, remoteIP, false, "missing_fields")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = p.compare(unknownUserHash(), []byte(password))
			p.record(email, remoteIP, false, "unknown_user")
			return nil, domain.ErrInvalidCredentials
		}
		p.record(email, remoteIP, false, "store_error")
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if p.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		p.record(email, remoteIP, false, "password_mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		p.record(email, remoteIP, false, "inactive")
		return nil, domain.ErrInvalidCredentials
	}

	p.record(email, remoteIP, true, "")
	sess := domain.SessionFromUser(user)
	return &sess, nil
}

func (p *CredentialsProvider) record(email, remoteIP string, ok bool, reason string) {
	p.log.Debug().
		Str("email", email).
		Bool("success", ok).
		Str("reason", reason).
		Msg("credential check")

	if p.audit == nil {
		return
	}
	p.audit.Record(domain.LoginAttempt{
		Email:    email,
		Success:  ok,
		Reason:   reason,
		RemoteIP: remoteIP,
		At:       p.now().UTC(),
	})
}

// HashPassword returns a bcrypt hash suitable for the user's password field.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
