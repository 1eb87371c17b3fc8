package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/taskforge/internal/core/domain"
)

const taskCollection = "tasks"

// TaskRepository persists tasks for the tracker service.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(taskCollection)}
}

type taskDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	TaskPublicID string               `bson:"task_public_id"`
	AssigneeID   string               `bson:"user_id"`
	Cost         primitive.Decimal128 `bson:"cost"`
	Status       int                  `bson:"status"`
	Description  string               `bson:"description"`
}

func (d taskDoc) toDomain() domain.Task {
	return domain.Task{
		ID:           d.ID.Hex(),
		TaskPublicID: d.TaskPublicID,
		AssigneeID:   d.AssigneeID,
		Cost:         d.Cost,
		Status:       domain.TaskStatus(d.Status),
		Description:  d.Description,
	}
}

func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	doc := taskDoc{
		TaskPublicID: task.TaskPublicID,
		AssigneeID:   task.AssigneeID,
		Cost:         task.Cost,
		Status:       int(task.Status),
		Description:  task.Description,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

func (r *TaskRepository) FindByPublicID(ctx context.Context, taskPublicID string) (*domain.Task, error) {
	var doc taskDoc
	if err := r.coll.FindOne(ctx, bson.M{"task_public_id": taskPublicID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *TaskRepository) ListOpen(ctx context.Context) ([]domain.Task, error) {
	cur, err := r.coll.Find(ctx, bson.M{"status": bson.M{"$ne": int(domain.StatusDone)}})
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []domain.Task
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Reassign(ctx context.Context, taskID, assigneeID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("reassign task: bad id: %w", err)
	}
	update := bson.M{"$set": bson.M{
		"user_id": assigneeID,
		"status":  int(domain.StatusToDo),
	}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("reassign task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskPublicID string, status domain.TaskStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"task_public_id": taskPublicID},
		bson.M{"$set": bson.M{"status": int(status)}},
	)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Dashboard joins every task to its mirrored assignee and flattens the result.
func (r *TaskRepository) Dashboard(ctx context.Context) ([]domain.DashboardRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         mirrorCollection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "assignee",
		}}},
		{{Key: "$unwind", Value: "$assignee"}},
		{{Key: "$project", Value: bson.M{
			"task_public_id": 1,
			"cost":           1,
			"description":    1,
			"status":         1,
			"username":       "$assignee.username",
			"email":          "$assignee.email",
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("dashboard query: %w", err)
	}
	defer cur.Close(ctx)

	var rows []domain.DashboardRow
	for cur.Next(ctx) {
		var doc struct {
			TaskPublicID string               `bson:"task_public_id"`
			Username     string               `bson:"username"`
			Cost         primitive.Decimal128 `bson:"cost"`
			Description  string               `bson:"description"`
			Status       int                  `bson:"status"`
			Email        *string              `bson:"email"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode dashboard row: %w", err)
		}
		rows = append(rows, domain.DashboardRow{
			TaskPublicID: doc.TaskPublicID,
			Username:     doc.Username,
			Cost:         doc.Cost,
			Description:  doc.Description,
			Status:       domain.TaskStatus(doc.Status),
			Email:        doc.Email,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("dashboard query: %w", err)
	}
	return rows, nil
}
