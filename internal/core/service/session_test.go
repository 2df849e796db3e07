package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mci/portal-api/internal/core/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(clock *fakeClock) *SessionIssuer {
	return NewSessionIssuer(SessionConfig{
		Secret: "test-secret",
		Issuer: "mci-portal",
		TTL:    time.Hour,
		Now:    clock.Now,
	})
}

var alice = domain.Session{ID: "u1", Name: "Alice", Email: "a@x.com", Role: "admin"}

func TestSessionIssuer_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue(alice)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	got, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if got.ID != alice.ID || got.Name != alice.Name || got.Email != alice.Email || got.Role != alice.Role {
		t.Fatalf("claims mismatch: got %+v, want %+v", got, alice)
	}
	if got.TokenID == "" {
		t.Fatalf("expected token id to be set")
	}
	if want := clock.t.Add(time.Hour); !got.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, got.ExpiresAt)
	}
}

func TestSessionIssuer_ValidUntilExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue(alice)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock.t = clock.t.Add(59 * time.Minute)
	if _, err := issuer.Validate(token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession after expiry, got %v", err)
	}
}

func TestSessionIssuer_RejectsTamperedToken(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer := newTestIssuer(clock)

	token, _ := issuer.Issue(alice)
	tampered := token[:len(token)-2] + "xx"

	if _, err := issuer.Validate(tampered); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionIssuer_RejectsForeignKey(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	other := NewSessionIssuer(SessionConfig{Secret: "other-secret", Issuer: "mci-portal", Now: clock.Now})
	token, _ := other.Issue(alice)

	if _, err := newTestIssuer(clock).Validate(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionIssuer_RejectsUnsignedToken(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	claims := jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"iss":  "mci-portal",
		"exp":  clock.t.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := newTestIssuer(clock).Validate(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionIssuer_RejectsMissingExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	claims := jwt.MapClaims{"sub": "u1", "role": "admin", "iss": "mci-portal"}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))

	if _, err := newTestIssuer(clock).Validate(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionIssuer_RejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(&fakeClock{t: time.Now()})

	for _, token := range []string{"", "not-a-token", "a.b.c", "...."} {
		if _, err := issuer.Validate(token); !errors.Is(err, domain.ErrInvalidSession) {
			t.Fatalf("token %q: expected ErrInvalidSession, got %v", token, err)
		}
	}
}

func TestSessionIssuer_EmptySecret(t *testing.T) {
	issuer := NewSessionIssuer(SessionConfig{})

	if _, err := issuer.Issue(alice); err == nil {
		t.Fatalf("expected error issuing with empty secret")
	}
	if _, err := issuer.Validate("anything"); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionIssuer_AcceptsPreviousSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	old := NewSessionIssuer(SessionConfig{Secret: "old-secret", Issuer: "mci-portal", Now: clock.Now})
	token, _ := old.Issue(alice)

	rotated := NewSessionIssuer(SessionConfig{
		Secret:          "new-secret",
		PreviousSecrets: []string{"old-secret"},
		Issuer:          "mci-portal",
		Now:             clock.Now,
	})

	got, err := rotated.Validate(token)
	if err != nil {
		t.Fatalf("expected token signed with previous secret to validate, got %v", err)
	}
	if got.Email != alice.Email {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionIssuer_DefaultTTL(t *testing.T) {
	if ttl := NewSessionIssuer(SessionConfig{Secret: "s"}).TTL(); ttl != defaultSessionTTL {
		t.Fatalf("expected default ttl %s, got %s", defaultSessionTTL, ttl)
	}
}

func TestSessionIssuer_IssueRequiresSubject(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue(domain.Session{Name: "n", Email: "e", Role: "admin"})
	if !errors.Is(err, errMissingSubject) {
		t.Fatalf("expected errMissingSubject, got token=%q err=%v", token, err)
	}
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}

	// Anything Issue does accept must validate.
	token, err = issuer.Issue(domain.Session{ID: "u9"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if got, err := issuer.Validate(token); err != nil || got.ID != "u9" {
		t.Fatalf("round trip failed: %+v, %v", got, err)
	}
}
