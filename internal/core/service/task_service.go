package service

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// TaskService is the task assignment engine. Assignees are always drawn
// uniformly at random from the eligible pool (mirrored accounts with a role
// of manager or better); callers never choose an assignee.
type TaskService struct {
	tasks    ports.TaskRepository
	mirror   ports.MirrorRepository
	payments ports.PaymentRepository
	log      zerolog.Logger
	// pick draws an index in [0, n). Replaceable in tests.
	pick func(n int) int
}

func NewTaskService(tasks ports.TaskRepository, mirror ports.MirrorRepository, payments ports.PaymentRepository, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		mirror:   mirror,
		payments: payments,
		log:      log,
		pick:     rand.IntN,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*ports.TaskResult, error) {
	pool, err := s.mirror.ListEligible(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		s.log.Warn().Msg("task not created: eligible pool is empty")
		return nil, domain.ErrEmptyAssigneePool
	}

	assignee := pool[s.pick(len(pool))]
	task := &domain.Task{
		TaskPublicID: uuid.NewString(),
		AssigneeID:   assignee.PublicID,
		Cost:         input.Cost,
		Status:       domain.StatusToDo,
		Description:  input.Description,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		s.log.Error().Err(err).Msg("task insert failed")
		return nil, err
	}
	s.recordPayment(ctx, task)

	s.log.Info().
		Str("task_public_id", task.TaskPublicID).
		Str("assignee", assignee.PublicID).
		Msg("task created")

	return &ports.TaskResult{
		TaskPublicID: task.TaskPublicID,
		AssigneeID:   assignee.PublicID,
		Status:       task.Status,
	}, nil
}

// ReassignOpenTasks snapshots the eligible pool once, then independently
// redraws an assignee for every task that is not done, resetting its status
// to to_do. Each task commits on its own: a failure on one task does not
// block the others. The pool snapshot is not serialized against concurrent
// mirror mutation.
func (s *TaskService) ReassignOpenTasks(ctx context.Context) (ports.ReassignResult, error) {
	var result ports.ReassignResult

	pool, err := s.mirror.ListEligible(ctx)
	if err != nil {
		return result, err
	}

	open, err := s.tasks.ListOpen(ctx)
	if err != nil {
		return result, err
	}
	result.Open = len(open)

	if len(pool) == 0 {
		s.log.Warn().Int("open_tasks", len(open)).Msg("reassignment skipped: eligible pool is empty")
		return result, nil
	}

	for _, task := range open {
		assignee := pool[s.pick(len(pool))]
		if err := s.tasks.Reassign(ctx, task.ID, assignee.PublicID); err != nil {
			result.Failed++
			s.log.Error().Err(err).Str("task_public_id", task.TaskPublicID).Msg("task reassignment failed")
			continue
		}
		result.Reassigned++
		task.AssigneeID = assignee.PublicID
		s.recordPayment(ctx, &task)
	}

	s.log.Info().
		Int("open", result.Open).
		Int("reassigned", result.Reassigned).
		Int("failed", result.Failed).
		Msg("reassignment pass finished")

	return result, nil
}

func (s *TaskService) AdvanceStatus(ctx context.Context, taskPublicID string, next domain.TaskStatus) error {
	task, err := s.tasks.FindByPublicID(ctx, taskPublicID)
	if err != nil {
		return err
	}
	if !task.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	return s.tasks.UpdateStatus(ctx, taskPublicID, next)
}

func (s *TaskService) Dashboard(ctx context.Context) ([]domain.DashboardRow, error) {
	return s.tasks.Dashboard(ctx)
}

// recordPayment writes the payment association for an assignment. The record
// is bookkeeping only; a failure never fails the assignment itself.
func (s *TaskService) recordPayment(ctx context.Context, task *domain.Task) {
	payment := &domain.Payment{
		TaskPublicID: task.TaskPublicID,
		AccountID:    task.AssigneeID,
		Amount:       task.Cost,
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		s.log.Warn().Err(err).Str("task_public_id", task.TaskPublicID).Msg("payment record failed")
	}
}
