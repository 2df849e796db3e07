package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

// AuthService implements the login flow over a set of pluggable providers.
type AuthService struct {
	providers   map[string]ports.AuthProvider
	issuer      ports.SessionIssuer
	revocations ports.RevocationList
	log         zerolog.Logger
}

func NewAuthService(issuer ports.SessionIssuer, revocations ports.RevocationList, log zerolog.Logger, providers ...ports.AuthProvider) *AuthService {
	byID := make(map[string]ports.AuthProvider, len(providers))
	for _, p := range providers {
		byID[p.ID()] = p
	}
	return &AuthService{
		providers:   byID,
		issuer:      issuer,
		revocations: revocations,
		log:         log,
	}
}

// Login authenticates through the named provider and mints a session token.
func (s *AuthService) Login(ctx context.Context, providerID string, creds ports.Credentials) (string, *domain.Session, error) {
	provider, ok := s.providers[providerID]
	if !ok {
		return "", nil, fmt.Errorf("login via %q: %w", providerID, domain.ErrUnknownProvider)
	}

	sess, err := provider.Authenticate(ctx, creds)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(*sess)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	// Re-read so the returned session carries expiry and token id.
	issued, err := s.issuer.Validate(token)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}

	s.log.Info().
		Str("user_id", issued.ID).
		Str("role", issued.Role).
		Str("provider", providerID).
		Msg("session issued")

	return token, issued, nil
}

// Logout revokes the token until its natural expiry. Invalid tokens are
// ignored: there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.issuer.Validate(token)
	if err != nil {
		return nil
	}
	if s.revocations == nil || sess.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.log.Info().Str("user_id", sess.ID).Msg("session revoked")
	return nil
}

// Resolve validates token and checks the revocation list. A revocation
// lookup failure fails closed.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.issuer.Validate(token)
	if err != nil {
		return nil, err
	}
	if s.revocations == nil || sess.TokenID == "" {
		return sess, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", sess.ID).Msg("revocation check failed")
		return nil, domain.ErrInvalidSession
	}
	if revoked {
		return nil, domain.ErrInvalidSession
	}
	return sess, nil
}
