package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus int

const (
	StatusToDo       TaskStatus = 1
	StatusInProgress TaskStatus = 2
	StatusDone       TaskStatus = 3
	StatusFailed     TaskStatus = 4
)

// validTransitions defines the allowed state machine transitions. Reassignment
// bypasses this table: it re-enters to_do from any non-done state.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusToDo:       {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusDone, StatusFailed},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether the task is still eligible for reassignment.
// Anything that is not done counts as open, including failed tasks.
func (s TaskStatus) Open() bool {
	return s != StatusDone
}

func (s TaskStatus) String() string {
	switch s {
	case StatusToDo:
		return "to_do"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is a unit of work assigned to a mirrored account. AssigneeID refers to
// the mirror account's public UUID. Cost is an exact decimal; no float
// rounding is ever applied.
type Task struct {
	ID           string               `json:"-"`
	TaskPublicID string               `json:"task_public_id"`
	AssigneeID   string               `json:"user_id"`
	Cost         primitive.Decimal128 `json:"cost"`
	Status       TaskStatus           `json:"status"`
	Description  string               `json:"description"`
}

// Payment records a monetary association between a task and an account.
type Payment struct {
	ID           string               `json:"-"`
	TaskPublicID string               `json:"task_public_id"`
	AccountID    string               `json:"user_id"`
	Amount       primitive.Decimal128 `json:"summa"`
}

// DashboardRow is the flattened task-plus-assignee reporting view.
type DashboardRow struct {
	TaskPublicID string               `json:"task_public_id"`
	Username     string               `json:"username"`
	Cost         primitive.Decimal128 `json:"cost"`
	Description  string               `json:"description"`
	Status       TaskStatus           `json:"status"`
	Email        *string              `json:"email"`
}
