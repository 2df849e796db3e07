package ports

import (
	"context"

	"github.com/mci/portal-api/internal/core/domain"
)

// TaskRepository reads tasks. An empty meta means no filter; results are
// ordered by order ascending, then creation time ascending.
type TaskRepository interface {
	ListTasks(ctx context.Context, meta string) ([]*domain.Task, error)
}

// InvitationRepository reads invitation records by token.
type InvitationRepository interface {
	FindByToken(ctx context.Context, token string) (*domain.Invitation, error)
}
