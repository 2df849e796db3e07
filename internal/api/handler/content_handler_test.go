package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

type stubUserService struct {
	users []*domain.User
	err   error
}

func (s *stubUserService) ListUsers(context.Context) ([]*domain.User, error) {
	return s.users, s.err
}

func (s *stubUserService) ListActiveUsers(context.Context) ([]*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.User
	for _, u := range s.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

var sampleUsers = []*domain.User{
	{ID: "1", Name: "Ann", Email: "ann@x.com", Role: "admin", Active: true, PasswordHash: "$2a$hash"},
	{ID: "2", Name: "Ben", Email: "ben@x.com", Role: "viewer", Active: false, PasswordHash: "$2a$hash"},
}

func TestUserHandler_List_OmitsPasswords(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{users: sampleUsers})

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Fatalf("response leaks password data: %s", body)
	}

	var resp struct {
		Users []map[string]any `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 || resp.Users[0]["_id"] != "1" || resp.Users[1]["active"] != false {
		t.Fatalf("unexpected users: %+v", resp.Users)
	}
}

func TestUserHandler_ListActive(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubUserService{users: sampleUsers})

	rec := httptest.NewRecorder()
	if err := h.ListActive(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/mci/users", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 active user, got %d", len(users))
	}
	for _, key := range []string{"_id", "name", "email", "role"} {
		if _, ok := users[0][key]; !ok {
			t.Fatalf("missing %s in %+v", key, users[0])
		}
	}
	if _, ok := users[0]["active"]; ok {
		t.Fatalf("active flag not expected in summary: %+v", users[0])
	}
}

func TestUserHandler_StoreError(t *testing.T) {
	e := newTestEcho()
	storeErr := errors.New("boom")
	h := NewUserHandler(&stubUserService{err: storeErr})

	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), httptest.NewRecorder())); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

type stubTaskService struct {
	lastMeta string
}

func (s *stubTaskService) ListTasks(_ context.Context, meta string) ([]*domain.Task, error) {
	s.lastMeta = meta
	return []*domain.Task{{ID: "t1", Title: "First", Meta: meta, Order: 1}}, nil
}

func TestTaskHandler_List_PassesMeta(t *testing.T) {
	e := newTestEcho()
	svc := &stubTaskService{}
	h := NewTaskHandler(svc)

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/mci/tasks?meta=x", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastMeta != "x" {
		t.Fatalf("expected meta x, got %q", svc.lastMeta)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") {
		t.Fatalf("expected json array, got %s", rec.Body.String())
	}
}

type stubInvitationService struct {
	inv *domain.Invitation
	err error
}

func (s *stubInvitationService) Verify(context.Context, string) (*domain.Invitation, error) {
	return s.inv, s.err
}

func TestInviteHandler_Verify(t *testing.T) {
	e := newTestEcho()
	inv := &domain.Invitation{Token: "abc", Status: domain.InvitationPending, ExpiresAt: time.Now().Add(time.Hour)}
	h := NewInviteHandler(&stubInvitationService{inv: inv})

	rec := httptest.NewRecorder()
	if err := h.Verify(e.NewContext(jsonRequest(http.MethodPost, "/api/verify-invite", `{"token":"abc"}`), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"invitation"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteHandler_Verify_MissingToken(t *testing.T) {
	e := newTestEcho()
	h := NewInviteHandler(&stubInvitationService{})

	for _, body := range []string{`{}`, `{"token":"  "}`} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/verify-invite", body), httptest.NewRecorder())
		if code := httpCode(t, h.Verify(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestInviteHandler_Verify_NotFound(t *testing.T) {
	e := newTestEcho()
	h := NewInviteHandler(&stubInvitationService{err: domain.ErrInvitationNotFound})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/verify-invite", `{"token":"old"}`), httptest.NewRecorder())
	if err := h.Verify(c); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound, got %v", err)
	}
}

type stubMailService struct {
	sent []ports.MailMessage
	err  error
}

func (s *stubMailService) Send(_ context.Context, msg ports.MailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestEmailHandler_Send(t *testing.T) {
	e := newTestEcho()
	svc := &stubMailService{}
	h := NewEmailHandler(svc)

	body := `{"to":"b@x.com, c@x.com","subject":"Hi","text":"hello","html":"<p>hello</p>"}`
	rec := httptest.NewRecorder()
	if err := h.Send(e.NewContext(jsonRequest(http.MethodPost, "/api/send-email", body), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.sent) != 1 || len(svc.sent[0].To) != 2 || svc.sent[0].To[1] != "c@x.com" {
		t.Fatalf("unexpected messages: %+v", svc.sent)
	}
}

func TestEmailHandler_Send_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewEmailHandler(&stubMailService{})

	for _, body := range []string{
		`{"subject":"Hi","text":"t"}`,
		`{"to":"b@x.com","text":"t"}`,
		`{"to":"b@x.com","subject":"Hi"}`,
		`{"to":"not-an-email","subject":"Hi","text":"t"}`,
		`{"to":" , ","subject":"Hi","text":"t"}`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/send-email", body), httptest.NewRecorder())
		if code := httpCode(t, h.Send(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestEmailHandler_Send_RelayFailure(t *testing.T) {
	e := newTestEcho()
	h := NewEmailHandler(&stubMailService{err: domain.ErrMailRelay})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/send-email", `{"to":"b@x.com","subject":"Hi","html":"<p>x</p>"}`), httptest.NewRecorder())
	if err := h.Send(c); !errors.Is(err, domain.ErrMailRelay) {
		t.Fatalf("expected ErrMailRelay, got %v", err)
	}
}
