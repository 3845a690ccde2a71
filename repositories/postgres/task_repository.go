package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

const taskColumns = `id, user_id, family_id, title, description, status, priority, due_date, completed_at, created_at, updated_at`

func scanTask(s rowScanner) (models.Task, error) {
	var t models.Task
	err := s.Scan(
		&t.ID,
		&t.UserID,
		&t.FamilyID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// TaskRepository implements the repositories.TaskRepository interface
type TaskRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB, logger *zap.Logger) repositories.TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// ListByOwner returns the owner's tasks, highest priority first
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY priority DESC, due_date ASC NULLS LAST
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, classify("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.FamilyID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return classify("create task", err)
	}

	r.logger.Debug("task created", zap.String("id", task.ID.String()))
	return nil
}

// Update applies a partial update to an owned task
func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = CASE WHEN $4 THEN $5 ELSE description END,
		    status = COALESCE($6, status),
		    priority = COALESCE($7, priority),
		    due_date = CASE WHEN $8 THEN $9 ELSE due_date END,
		    completed_at = COALESCE($10, completed_at),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	t, err := scanTask(executor(ctx, r.db).QueryRowContext(ctx, query,
		id, ownerID,
		patch.Title,
		patch.SetDescription,
		patch.Description,
		patch.Status,
		patch.Priority,
		patch.SetDueDate,
		patch.DueDate,
		patch.CompletedAt,
	))
	if err != nil {
		return nil, classify("update task", err)
	}
	return &t, nil
}

// Delete removes an owned task
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	return expectOne("delete task", result, err)
}

// ExpenseRepository implements the repositories.ExpenseRepository interface
type ExpenseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB, logger *zap.Logger) repositories.ExpenseRepository {
	return &ExpenseRepository{db: db, logger: logger}
}

const expenseColumns = `id, user_id, family_id, amount, category, description, date, created_at`

// ListByOwner returns owned expenses in [from, to], newest first
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ownerID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, classify("list expenses", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.FamilyID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	return expenses, nil
}

// Create inserts an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		expense.ID,
		expense.UserID,
		expense.FamilyID,
		expense.Amount,
		expense.Category,
		expense.Description,
		expense.Date,
		expense.CreatedAt,
	)
	if err != nil {
		return classify("create expense", err)
	}
	return nil
}

// Delete removes an owned expense
func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, ownerID)
	return expectOne("delete expense", result, err)
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
