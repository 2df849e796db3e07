package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mci/portal-api/internal/core/domain"
)

const collectionInvitations = "invitations"

// InvitationRepository implements ports.InvitationRepository using MongoDB.
type InvitationRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewInvitationRepository(db *mongo.Database, timeout time.Duration) *InvitationRepository {
	return &InvitationRepository{coll: db.Collection(collectionInvitations), timeout: timeout}
}

type mongoInvitation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	Email     string             `bson:"email,omitempty"`
	Role      string             `bson:"role,omitempty"`
	Status    string             `bson:"status"`
	ExpiresAt time.Time          `bson:"expires_at"`
}

// FindByToken returns the invitation for token regardless of its status.
func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := queryContext(ctx, r.timeout)
	defer cancel()

	var mi mongoInvitation
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}

	return &domain.Invitation{
		ID:        mi.ID.Hex(),
		Token:     mi.Token,
		Email:     mi.Email,
		Role:      mi.Role,
		Status:    domain.InvitationStatus(mi.Status),
		ExpiresAt: mi.ExpiresAt.UTC(),
	}, nil
}

func (r *InvitationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
