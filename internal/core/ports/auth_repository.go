package ports

import (
	"context"
	"time"

	"github.com/mci/portal-api/internal/core/domain"
)

// UserRepository defines read access to user records in the content store.
type UserRepository interface {
	// FindByEmail returns the single user whose email matches exactly,
	// or domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListActive(ctx context.Context) ([]*domain.User, error)
}

// RevocationList records sessions ended before their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
