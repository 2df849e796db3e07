package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mci/portal-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
	calls   int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) ListActive(ctx context.Context) ([]*domain.User, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, u := range all {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingSink struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (s *recordingSink) Record(a domain.LoginAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
}

func (s *recordingSink) last() domain.LoginAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[len(s.attempts)-1]
}

var discardLogger = zerolog.Nop()

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func storedUser(t *testing.T, email, password, role string, active bool) *domain.User {
	return &domain.User{
		ID:           "id-" + email,
		Name:         "User " + email,
		Email:        email,
		PasswordHash: mustHash(t, password),
		Role:         role,
		Active:       active,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCredentialsProvider_Verify_Success(t *testing.T) {
	repo := newStubUserRepo(storedUser(t, "a@x.com", "correct", "staff", true))
	sink := &recordingSink{}
	p := NewCredentialsProvider(repo, sink, discardLogger)

	sess, err := p.Verify(context.Background(), "a@x.com", "correct", "10.0.0.1")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sess.Role != "staff" || sess.Email != "a@x.com" || sess.ID != "id-a@x.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got := sink.last()
	if !got.Success || got.Email != "a@x.com" || got.RemoteIP != "10.0.0.1" {
		t.Fatalf("unexpected audit record: %+v", got)
	}
}

func TestCredentialsProvider_Verify_WrongPassword(t *testing.T) {
	repo := newStubUserRepo(storedUser(t, "a@x.com", "correct", "staff", true))
	sink := &recordingSink{}
	p := NewCredentialsProvider(repo, sink, discardLogger)

	sess, err := p.Verify(context.Background(), "a@x.com", "wrong", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sess != nil {
		t.Fatalf("expected no session, got %+v", sess)
	}
	if got := sink.last(); got.Success || got.Reason != "password_mismatch" {
		t.Fatalf("unexpected audit record: %+v", got)
	}
}

func TestCredentialsProvider_Verify_UnknownUserLooksLikeWrongPassword(t *testing.T) {
	p := NewCredentialsProvider(newStubUserRepo(), nil, discardLogger)

	if _, err := p.Verify(context.Background(), "ghost@x.com", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialsProvider_Verify_UnknownUserRunsHashComparison(t *testing.T) {
	p := NewCredentialsProvider(newStubUserRepo(storedUser(t, "a@x.com", "correct", "staff", true)), nil, discardLogger)

	var hashes [][]byte
	p.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	if _, err := p.Verify(context.Background(), "nobody@x.com", "whatever", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("expected one hash comparison for unknown user, got %d", len(hashes))
	}
	cost, err := bcrypt.Cost(hashes[0])
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("expected placeholder hash at default cost, got cost=%d err=%v", cost, err)
	}

	if _, err := p.Verify(context.Background(), "a@x.com", "wrong", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("expected one comparison per attempt, got %d", len(hashes))
	}
}

func TestCredentialsProvider_Verify_InactiveUser(t *testing.T) {
	repo := newStubUserRepo(storedUser(t, "old@x.com", "pass", "admin", false))
	p := NewCredentialsProvider(repo, nil, discardLogger)

	if _, err := p.Verify(context.Background(), "old@x.com", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialsProvider_Verify_BlankFieldsSkipStore(t *testing.T) {
	repo := newStubUserRepo()
	p := NewCredentialsProvider(repo, nil, discardLogger)

	for _, in := range [][2]string{{"", "pass"}, {"a@x.com", ""}, {"   ", "pass"}} {
		if _, err := p.Verify(context.Background(), in[0], in[1], ""); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%q: expected ErrInvalidCredentials, got %v", in, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store lookups, got %d", repo.calls)
	}
}

func TestCredentialsProvider_Verify_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := newStubUserRepo()
	repo.findErr = storeErr
	p := NewCredentialsProvider(repo, nil, discardLogger)

	_, err := p.Verify(context.Background(), "a@x.com", "pass", "")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store failure must not look like bad credentials")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
