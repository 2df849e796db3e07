package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

// UserService reads user records. Password hashes never leave the domain
// type's JSON encoding.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return users, nil
}

type TaskService struct {
	repo ports.TaskRepository
}

func NewTaskService(repo ports.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// ListTasks returns the ordered task list, optionally filtered by meta.
func (s *TaskService) ListTasks(ctx context.Context, meta string) ([]*domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, strings.TrimSpace(meta))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

type InvitationService struct {
	repo ports.InvitationRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewInvitationService(repo ports.InvitationRepository, log zerolog.Logger) *InvitationService {
	return &InvitationService{repo: repo, log: log, now: time.Now}
}

// Verify returns the invitation for token when it is still pending and not
// past its expiry. The record itself is never modified here.
func (s *InvitationService) Verify(ctx context.Context, token string) (*domain.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvitationNotFound
	}

	inv, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("verify invitation: %w", err)
	}

	if !inv.Usable(s.now()) {
		s.log.Debug().
			Str("status", string(inv.Status)).
			Time("expires_at", inv.ExpiresAt).
			Msg("invitation not usable")
		return nil, domain.ErrInvitationNotFound
	}
	return inv, nil
}
