package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	tasks      []domain.Task
	mirror     *memMirrorRepo // for the dashboard join
	nextID     int
	failTaskID string // Reassign fails for this task id
}

func newStubTaskRepo(mirror *memMirrorRepo) *stubTaskRepo {
	return &stubTaskRepo{mirror: mirror}
}

func (r *stubTaskRepo) Insert(_ context.Context, task *domain.Task) error {
	r.nextID++
	task.ID = fmt.Sprintf("task-%d", r.nextID)
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *stubTaskRepo) FindByPublicID(_ context.Context, taskPublicID string) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.TaskPublicID == taskPublicID {
			clone := task
			return &clone, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) ListOpen(_ context.Context) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.Status.Open() {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Reassign(_ context.Context, taskID, assigneeID string) error {
	if taskID == r.failTaskID {
		return errors.New("write failed")
	}
	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			r.tasks[i].AssigneeID = assigneeID
			r.tasks[i].Status = domain.StatusToDo
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, taskPublicID string, status domain.TaskStatus) error {
	for i := range r.tasks {
		if r.tasks[i].TaskPublicID == taskPublicID {
			r.tasks[i].Status = status
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *stubTaskRepo) Dashboard(ctx context.Context) ([]domain.DashboardRow, error) {
	var rows []domain.DashboardRow
	for _, task := range r.tasks {
		assignee, err := r.mirror.FindByPublicID(ctx, task.AssigneeID)
		if err != nil {
			continue
		}
		rows = append(rows, domain.DashboardRow{
			TaskPublicID: task.TaskPublicID,
			Username:     assignee.Username,
			Cost:         task.Cost,
			Description:  task.Description,
			Status:       task.Status,
			Email:        assignee.Email,
		})
	}
	return rows, nil
}

type stubPaymentRepo struct {
	payments  []domain.Payment
	insertErr error
}

func (r *stubPaymentRepo) Insert(_ context.Context, payment *domain.Payment) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.payments = append(r.payments, *payment)
	return nil
}

func dec(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedMirror(t *testing.T, repo *memMirrorRepo, publicID string, role domain.Role) {
	t.Helper()
	err := repo.Insert(context.Background(), &domain.MirrorAccount{
		PublicID: publicID,
		Username: publicID + "-name",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed mirror: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTaskService_CreateTask_AssignsOnlyPrivilegedAccounts(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	payments := &stubPaymentRepo{}
	svc := NewTaskService(tasks, mirror, payments, zerolog.Nop())

	seedMirror(t, mirror, "admin-1", domain.RoleAdmin)
	seedMirror(t, mirror, "mgr-1", domain.RoleManager)
	seedMirror(t, mirror, "client-1", domain.RoleClient)
	seedMirror(t, mirror, "client-2", domain.RoleClient)

	for i := 0; i < 50; i++ {
		result, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{
			Cost:        dec(t, "10.00"),
			Description: "x",
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		assignee, err := mirror.FindByPublicID(context.Background(), result.AssigneeID)
		if err != nil {
			t.Fatalf("assignee not mirrored: %v", err)
		}
		if assignee.Role > domain.RoleManager {
			t.Fatalf("task assigned to unprivileged account %s (role %d)", result.AssigneeID, assignee.Role)
		}
		if result.Status != domain.StatusToDo {
			t.Fatalf("new task must be to_do, got %s", result.Status)
		}
	}
}

func TestTaskService_CreateTask_EmptyPool(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	svc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())

	seedMirror(t, mirror, "client-1", domain.RoleClient)

	if _, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{
		Cost: dec(t, "5.00"), Description: "x",
	}); err != domain.ErrEmptyAssigneePool {
		t.Fatalf("expected ErrEmptyAssigneePool, got %v", err)
	}
	if len(tasks.tasks) != 0 {
		t.Fatalf("no task may be inserted with an empty pool")
	}
}

func TestTaskService_CreateTask_RecordsPayment(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	payments := &stubPaymentRepo{}
	svc := NewTaskService(tasks, mirror, payments, zerolog.Nop())

	seedMirror(t, mirror, "mgr-1", domain.RoleManager)

	result, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{
		Cost: dec(t, "42.50"), Description: "billing",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(payments.payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments.payments))
	}
	p := payments.payments[0]
	if p.TaskPublicID != result.TaskPublicID || p.AccountID != result.AssigneeID {
		t.Fatalf("payment not linked to assignment: %+v", p)
	}
	if p.Amount.String() != "42.50" {
		t.Fatalf("expected exact amount 42.50, got %s", p.Amount.String())
	}
}

func TestTaskService_Reassign_EmptyPoolIsNoOp(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	svc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())

	tasks.tasks = []domain.Task{
		{ID: "task-1", TaskPublicID: "t1", AssigneeID: "old", Status: domain.StatusInProgress, Cost: dec(t, "1")},
		{ID: "task-2", TaskPublicID: "t2", AssigneeID: "old", Status: domain.StatusFailed, Cost: dec(t, "2")},
	}

	result, err := svc.ReassignOpenTasks(context.Background())
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if result.Reassigned != 0 || result.Failed != 0 {
		t.Fatalf("empty pool must reassign nothing: %+v", result)
	}
	for _, task := range tasks.tasks {
		if task.AssigneeID != "old" || task.Status == domain.StatusToDo {
			t.Fatalf("task mutated despite empty pool: %+v", task)
		}
	}
}

func TestTaskService_Reassign_RedrawsEveryOpenTask(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	svc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())

	seedMirror(t, mirror, "mgr-1", domain.RoleManager)

	tasks.tasks = []domain.Task{
		{ID: "task-1", TaskPublicID: "t1", AssigneeID: "gone", Status: domain.StatusToDo, Cost: dec(t, "1")},
		{ID: "task-2", TaskPublicID: "t2", AssigneeID: "gone", Status: domain.StatusInProgress, Cost: dec(t, "2")},
		{ID: "task-3", TaskPublicID: "t3", AssigneeID: "gone", Status: domain.StatusFailed, Cost: dec(t, "3")},
		{ID: "task-4", TaskPublicID: "t4", AssigneeID: "keep", Status: domain.StatusDone, Cost: dec(t, "4")},
	}

	result, err := svc.ReassignOpenTasks(context.Background())
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	// Everything that is not done is open, failed tasks included.
	if result.Open != 3 || result.Reassigned != 3 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, task := range tasks.tasks {
		if task.ID == "task-4" {
			if task.AssigneeID != "keep" || task.Status != domain.StatusDone {
				t.Fatalf("done task must be untouched: %+v", task)
			}
			continue
		}
		if task.AssigneeID != "mgr-1" || task.Status != domain.StatusToDo {
			t.Fatalf("open task not reassigned: %+v", task)
		}
	}
}

func TestTaskService_Reassign_PartialFailure(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	svc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())

	seedMirror(t, mirror, "mgr-1", domain.RoleManager)

	tasks.tasks = []domain.Task{
		{ID: "task-1", TaskPublicID: "t1", AssigneeID: "gone", Status: domain.StatusToDo, Cost: dec(t, "1")},
		{ID: "task-2", TaskPublicID: "t2", AssigneeID: "gone", Status: domain.StatusToDo, Cost: dec(t, "2")},
		{ID: "task-3", TaskPublicID: "t3", AssigneeID: "gone", Status: domain.StatusToDo, Cost: dec(t, "3")},
	}
	tasks.failTaskID = "task-2"

	result, err := svc.ReassignOpenTasks(context.Background())
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if result.Reassigned != 2 || result.Failed != 1 {
		t.Fatalf("one failure must not block the rest: %+v", result)
	}
}

func TestTaskService_AdvanceStatus(t *testing.T) {
	mirror := newMemMirrorRepo()
	tasks := newStubTaskRepo(mirror)
	svc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())

	tasks.tasks = []domain.Task{
		{ID: "task-1", TaskPublicID: "t1", AssigneeID: "a", Status: domain.StatusToDo, Cost: dec(t, "1")},
	}

	if err := svc.AdvanceStatus(context.Background(), "t1", domain.StatusDone); err != domain.ErrInvalidTransition {
		t.Fatalf("to_do -> done must be rejected, got %v", err)
	}
	if err := svc.AdvanceStatus(context.Background(), "t1", domain.StatusInProgress); err != nil {
		t.Fatalf("to_do -> in_progress failed: %v", err)
	}
	if err := svc.AdvanceStatus(context.Background(), "t1", domain.StatusDone); err != nil {
		t.Fatalf("in_progress -> done failed: %v", err)
	}
	if err := svc.AdvanceStatus(context.Background(), "missing", domain.StatusInProgress); err != domain.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

// TestAccountLifecycleToDashboard walks the cross-service flow end to end
// over in-memory storage: an account event lands in the mirror, a task is
// created against the resulting pool, and the dashboard reports the join.
func TestAccountLifecycleToDashboard(t *testing.T) {
	mirror := newMemMirrorRepo()
	mirrorSvc := NewMirrorService(mirror, zerolog.Nop())
	tasks := newStubTaskRepo(mirror)
	taskSvc := NewTaskService(tasks, mirror, &stubPaymentRepo{}, zerolog.Nop())
	ctx := context.Background()

	payload, _ := json.Marshal(domain.AccountEventPayload{
		Username: "grace",
		Email:    strptr("grace@example.com"),
		Role:     domain.RoleManager,
		PublicID: "u1",
	})
	if err := mirrorSvc.Apply(ctx, domain.AccountEvent{Op: domain.AccountEventCreate, Payload: payload}); err != nil {
		t.Fatalf("apply create event: %v", err)
	}

	result, err := taskSvc.CreateTask(ctx, ports.CreateTaskInput{
		Cost: dec(t, "10.00"), Description: "x",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if result.AssigneeID != "u1" {
		t.Fatalf("only eligible member is u1, got %s", result.AssigneeID)
	}

	rows, err := taskSvc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Username != "grace" || row.Description != "x" || row.Status != domain.StatusToDo {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Cost.String() != "10.00" {
		t.Fatalf("expected exact cost 10.00, got %s", row.Cost.String())
	}
	if row.Email == nil || *row.Email != "grace@example.com" {
		t.Fatalf("expected assignee email, got %v", row.Email)
	}
}
