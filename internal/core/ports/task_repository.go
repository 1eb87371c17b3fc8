package ports

import (
	"context"

	"github.com/taskforge/taskforge/internal/core/domain"
)

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) error
	FindByPublicID(ctx context.Context, taskPublicID string) (*domain.Task, error)
	// ListOpen returns every task whose status is not done.
	ListOpen(ctx context.Context) ([]domain.Task, error)
	// Reassign sets the task's assignee and resets its status to to_do.
	// Each call commits independently of any other task.
	Reassign(ctx context.Context, taskID, assigneeID string) error
	UpdateStatus(ctx context.Context, taskPublicID string, status domain.TaskStatus) error
	// Dashboard joins tasks to the account mirror by assignee identity and
	// returns the flattened reporting view for every task.
	Dashboard(ctx context.Context) ([]domain.DashboardRow, error)
}
