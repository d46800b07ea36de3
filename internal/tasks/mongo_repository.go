package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

// TasksCollection is the MongoDB collection holding tasks.
const TasksCollection = "tasks"

type taskDocument struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d taskDocument) toTask() Task {
	return Task{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MongoRepository stores tasks as documents referencing their owner.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository constructs a MongoDB backed repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(TasksCollection)}
}

// EnsureIndexes creates the owner listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return persistence("create indexes", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, task *Task) error {
	_, err := r.coll.InsertOne(ctx, taskDocument{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	})
	if err != nil {
		return persistence("insert task", err)
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context, ownerID string, q ListQuery) ([]Task, error) {
	filter := bson.M{"owner": ownerID}
	if q.Completed != nil {
		filter["completed"] = *q.Completed
	}
	dir := 1
	if q.Desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: string(q.SortBy), Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, persistence("find tasks", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, persistence("decode tasks", err)
	}
	list := make([]Task, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toTask())
	}
	return list, nil
}

func (r *MongoRepository) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, persistence("find task", err)
	}
	task := doc.toTask()
	return &task, nil
}

func (r *MongoRepository) Update(ctx context.Context, task *Task) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": task.ID, "owner": task.OwnerID},
		bson.M{"$set": bson.M{
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		}},
	)
	if err != nil {
		return persistence("update task", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, id string) (*Task, error) {
	var doc taskDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, persistence("delete task", err)
	}
	task := doc.toTask()
	return &task, nil
}

func (r *MongoRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"owner": ownerID}); err != nil {
		return persistence("delete owner tasks", err)
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: tasks: %s: %w", shared.ErrPersistence, op, err)
}
