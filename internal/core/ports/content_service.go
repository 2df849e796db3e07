package ports

import (
	"context"

	"github.com/mci/portal-api/internal/core/domain"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListActiveUsers(ctx context.Context) ([]*domain.User, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, meta string) ([]*domain.Task, error)
}

type InvitationService interface {
	Verify(ctx context.Context, token string) (*domain.Invitation, error)
}
