package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskforge/taskforge/internal/api/metrics"
	"github.com/taskforge/taskforge/internal/core/domain"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// TaskHandler exposes the task tracker HTTP surface. Authorization is
// enforced by the route middleware; handlers only run business operations.
type TaskHandler struct {
	tasks ports.TaskService
}

func NewTaskHandler(tasks ports.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// --- Request / Response types ---

type createTaskRequest struct {
	Cost        string `form:"cost"        validate:"required"`
	Description string `form:"description" validate:"required"`
}

type createTaskResponse struct {
	TaskPublicID string `json:"task_public_id"`
	AssigneeID   string `json:"user_id"`
	Status       string `json:"status"`
}

type advanceStatusRequest struct {
	TaskPublicID string `form:"task_public_id" validate:"required,uuid"`
	Status       int    `form:"status"         validate:"required,oneof=2 3 4"`
}

type reassignResponse struct {
	Open       int `json:"open"`
	Reassigned int `json:"reassigned"`
	Failed     int `json:"failed"`
}

type dashboardRow struct {
	TaskPublicID string  `json:"task_public_id"`
	Username     string  `json:"username"`
	Cost         string  `json:"cost"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Email        *string `json:"email"`
}

// Create creates a task and assigns it to a random eligible account.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  createTaskResponse
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /task_tracker/task/create [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cost, err := primitive.ParseDecimal128(req.Cost)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cost must be a decimal number")
	}

	result, err := h.tasks.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Cost:        cost,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.Inc()

	return c.JSON(http.StatusOK, createTaskResponse{
		TaskPublicID: result.TaskPublicID,
		AssigneeID:   result.AssigneeID,
		Status:       result.Status.String(),
	})
}

// Check returns 200 when the caller passed both the remote token check and
// the local privilege check; the middleware has already decided by the time
// this runs.
//
// @Summary      Check caller privileges
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  errorResponse
// @Router       /task_tracker/task/check [post]
func (h *TaskHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Reassign redraws an assignee for every open task.
//
// @Summary      Reassign all open tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  reassignResponse
// @Failure      403  {object}  errorResponse
// @Router       /task_tracker/task/reassign [post]
func (h *TaskHandler) Reassign(c echo.Context) error {
	result, err := h.tasks.ReassignOpenTasks(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.TasksReassignedTotal.Add(float64(result.Reassigned))
	metrics.TasksReassignErrorsTotal.Add(float64(result.Failed))
	return c.JSON(http.StatusOK, reassignResponse{
		Open:       result.Open,
		Reassigned: result.Reassigned,
		Failed:     result.Failed,
	})
}

// AdvanceStatus moves a task along its lifecycle.
//
// @Summary      Advance a task's status
// @Tags         tasks
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /task_tracker/task/status [post]
func (h *TaskHandler) AdvanceStatus(c echo.Context) error {
	var req advanceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.tasks.AdvanceStatus(c.Request().Context(), req.TaskPublicID, domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard returns the flattened task-plus-assignee view for every task.
//
// @Summary      Task dashboard
// @Tags         tasks
// @Produce      json
// @Success      200  {array}  dashboardRow
// @Router       /task_tracker/task/dashboard [post]
func (h *TaskHandler) Dashboard(c echo.Context) error {
	rows, err := h.tasks.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]dashboardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dashboardRow{
			TaskPublicID: row.TaskPublicID,
			Username:     row.Username,
			Cost:         row.Cost.String(),
			Description:  row.Description,
			Status:       row.Status.String(),
			Email:        row.Email,
		})
	}
	return c.JSON(http.StatusOK, out)
}
