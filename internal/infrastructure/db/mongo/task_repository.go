package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mci/portal-api/internal/core/domain"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB.
type TaskRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewTaskRepository(db *mongo.Database, timeout time.Duration) *TaskRepository {
	return &TaskRepository{coll: db.Collection(collectionTasks), timeout: timeout}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Meta        string             `bson:"meta,omitempty"`
	Status      string             `bson:"status,omitempty"`
	Order       int                `bson:"order"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// taskFilter maps the $meta query parameter onto a bson filter.
func taskFilter(meta string) bson.M {
	if meta == "" {
		return bson.M{}
	}
	return bson.M{"meta": meta}
}

var taskOrder = bson.D{
	{Key: "order", Value: 1},
	{Key: "created_at", Value: 1},
}

// ListTasks returns tasks ordered by order then creation time.
func (r *TaskRepository) ListTasks(ctx context.Context, meta string) ([]*domain.Task, error) {
	ctx, cancel := queryContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, taskFilter(meta), options.Find().SetSort(taskOrder))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTask
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, &domain.Task{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Description: d.Description,
			Meta:        d.Meta,
			Status:      d.Status,
			Order:       d.Order,
			DueDate:     d.DueDate,
			CreatedAt:   d.CreatedAt,
		})
	}
	return tasks, nil
}

// EnsureIndexes creates the index backing the filtered, ordered listing.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "meta", Value: 1}, {Key: "order", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}
