package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mci/portal-api/internal/core/domain"
)

const (
	collectionLoginAttempts = "login_attempts"
	attemptRetention        = 30 * 24 * time.Hour
)

// AttemptRepository writes login attempts to an append-only audit collection.
type AttemptRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAttemptRepository(db *mongo.Database, timeout time.Duration) *AttemptRepository {
	return &AttemptRepository{coll: db.Collection(collectionLoginAttempts), timeout: timeout}
}

// InsertAttempt persists a single login attempt.
func (r *AttemptRepository) InsertAttempt(ctx context.Context, a domain.LoginAttempt) error {
	ctx, cancel := queryContext(ctx, r.timeout)
	defer cancel()

	doc := bson.M{
		"email":   a.Email,
		"success": a.Success,
		"at":      a.At.UTC(),
	}
	if a.Reason != "" {
		doc["reason"] = a.Reason
	}
	if a.RemoteIP != "" {
		doc["remote_ip"] = a.RemoteIP
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes expires audit records after attemptRetention.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(attemptRetention.Seconds())),
		},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "at", Value: -1}}},
	})
	return err
}
