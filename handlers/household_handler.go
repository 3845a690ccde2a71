package handlers

import (
	"net/http"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *int               `json:"priority"`
	DueDate     *string            `json:"dueDate"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}. An explicit null
// clears description or dueDate.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description nullableString     `json:"description"`
	Status      *models.TaskStatus `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *int               `json:"priority"`
	DueDate     nullableString     `json:"dueDate"`
}

// TaskHandler handles the caller's tasks
type TaskHandler struct {
	Responder
	tasks *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService, r Responder) *TaskHandler {
	return &TaskHandler{Responder: r, tasks: tasks}
}

// HandleList handles GET /api/tasks
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, tasks)
}

// HandleCreate handles POST /api/tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := parseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), id.UserID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     due,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, task)
}

// HandleUpdate handles PATCH /api/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id", services.ErrTaskNotFound)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := parseOptionalDate("dueDate", req.DueDate.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), id.UserID, taskID, models.TaskPatch{
		Title:          req.Title,
		Description:    req.Description.Value,
		SetDescription: req.Description.Set,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        due,
		SetDueDate:     req.DueDate.Set,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, task)
}

// HandleDelete handles DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	taskID, ok := h.pathID(w, r, "id", services.ErrTaskNotFound)
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), id.UserID, taskID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateExpenseRequest is the body of POST /api/expenses
type CreateExpenseRequest struct {
	Amount      float64                `json:"amount" validate:"gt=0"`
	Category    models.ExpenseCategory `json:"category" validate:"required,oneof=FOOD BILLS EDUCATION HEALTH TRANSPORT SHOPPING ENTERTAINMENT OTHER"`
	Description *string                `json:"description"`
	Date        *string                `json:"date"`
}

// ExpenseHandler handles the caller's expenses
type ExpenseHandler struct {
	Responder
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenses *services.ExpenseService, r Responder) *ExpenseHandler {
	return &ExpenseHandler{Responder: r, expenses: expenses}
}

func monthYear(r *http.Request) (month, year *int, err error) {
	if month, err = queryInt(r, "month", 1, 12); err != nil {
		return nil, nil, err
	}
	if year, err = queryInt(r, "year", 1, 9999); err != nil {
		return nil, nil, err
	}
	return month, year, nil
}

// HandleList handles GET /api/expenses?month&year
func (h *ExpenseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	expenses, err := h.expenses.List(r.Context(), id.UserID, month, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, expenses)
}

// HandleSummary handles GET /api/expenses/summary?month&year
func (h *ExpenseHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.expenses.Summary(r.Context(), id.UserID, month, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, summary)
}

// HandleCreate handles POST /api/expenses
func (h *ExpenseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateExpenseRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	expense, err := h.expenses.Create(r.Context(), id.UserID, services.ExpenseInput{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, expense)
}

// HandleDelete handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	expenseID, ok := h.pathID(w, r, "id", services.ErrExpenseNotFound)
	if !ok {
		return
	}
	if err := h.expenses.Delete(r.Context(), id.UserID, expenseID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
