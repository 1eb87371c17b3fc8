package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task. The assignee is
// never chosen by the caller; the engine draws it from the eligible pool.
type CreateTaskInput struct {
	Cost        primitive.Decimal128
	Description string
}

// TaskResult is returned after a successful task creation.
type TaskResult struct {
	TaskPublicID string
	AssigneeID   string
	Status       domain.TaskStatus
}

// ReassignResult reports the outcome of a reassignment pass. Reassigned may
// be a strict subset of open tasks: each task commits independently and a
// failure on one does not block the others.
type ReassignResult struct {
	Open       int
	Reassigned int
	Failed     int
}

// TaskService is the task assignment engine.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*TaskResult, error)
	// ReassignOpenTasks snapshots the eligible pool once, then independently
	// redraws an assignee for every task that is not done.
	ReassignOpenTasks(ctx context.Context) (ReassignResult, error)
	// AdvanceStatus moves a task along its lifecycle, enforcing the state
	// machine transitions.
	AdvanceStatus(ctx context.Context, taskPublicID string, next domain.TaskStatus) error
	Dashboard(ctx context.Context) ([]domain.DashboardRow, error)
}
