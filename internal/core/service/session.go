package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mci/portal-api/internal/core/domain"
)

const defaultSessionTTL = 8 * time.Hour

var (
	errEmptySecret    = errors.New("session: signing secret is empty")
	errMissingSubject = errors.New("session: subject id is empty")
)

// SessionConfig controls token lifetime and key material.
type SessionConfig struct {
	Secret string
	// PreviousSecrets are accepted for verification only, so tokens signed
	// before a key rotation stay valid until they expire.
	PreviousSecrets []string
	Issuer          string
	TTL             time.Duration
	Now             func() time.Time
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer mints HS256 session tokens. No server-side state is kept.
type SessionIssuer struct {
	secret   []byte
	previous [][]byte
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionIssuer(cfg SessionConfig) *SessionIssuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	previous := make([][]byte, 0, len(cfg.PreviousSecrets))
	for _, p := range cfg.PreviousSecrets {
		if p != "" {
			previous = append(previous, []byte(p))
		}
	}

	return &SessionIssuer{
		secret:   []byte(cfg.Secret),
		previous: previous,
		issuer:   cfg.Issuer,
		ttl:      ttl,
		now:      now,
	}
}

// TTL is the lifetime given to newly issued tokens.
func (s *SessionIssuer) TTL() time.Duration { return s.ttl }

// Issue signs a token carrying the session identity and role.
func (s *SessionIssuer) Issue(sess domain.Session) (string, error) {
	if len(s.secret) == 0 {
		return "", errEmptySecret
	}
	// Validate rejects subject-less tokens; refuse to mint one.
	if sess.ID == "" {
		return "", errMissingSubject
	}

	now := s.now()
	claims := sessionClaims{
		Name:  sess.Name,
		Email: sess.Email,
		Role:  sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sess.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate returns the session encoded in token. Every failure (malformed,
// expired, unsigned, wrong key) collapses to domain.ErrInvalidSession.
func (s *SessionIssuer) Validate(token string) (*domain.Session, error) {
	if token == "" || len(s.secret) == 0 {
		return nil, domain.ErrInvalidSession
	}

	keys := append([][]byte{s.secret}, s.previous...)
	for _, key := range keys {
		claims, err := s.parse(token, key)
		if err == nil {
			return claims.session(), nil
		}
		// Only a signature mismatch can be fixed by trying an older key.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, domain.ErrInvalidSession
}

func (s *SessionIssuer) parse(token string, key []byte) (*sessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidSession
	}
	return claims, nil
}

func (c *sessionClaims) session() *domain.Session {
	sess := &domain.Session{
		ID:      c.Subject,
		Name:    c.Name,
		Email:   c.Email,
		Role:    c.Role,
		TokenID: c.ID,
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess
}
