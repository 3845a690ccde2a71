package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// TaskInput is a validated task creation request
type TaskInput struct {
	Title       string
	Description *string
	Status      *models.TaskStatus
	Priority    *int
	DueDate     *time.Time
}

// TaskService manages the caller's tasks
type TaskService struct {
	tasks  repositories.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewTaskService creates a TaskService
func NewTaskService(tasks repositories.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, logger: logger, now: time.Now}
}

// List returns the owner's tasks, highest priority first
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, WrapInternal("Failed to load tasks", err)
	}
	return tasks, nil
}

// Create adds a task for the owner
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in TaskInput) (*models.Task, error) {
	task := models.NewTask(ownerID, in.Title)
	task.Description = in.Description
	if in.Status != nil {
		task.Status = *in.Status
		if task.Status == models.TaskCompleted {
			completed := task.CreatedAt
			task.CompletedAt = &completed
		}
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, WrapInternal("Failed to create task", err)
	}
	return task, nil
}

// Update applies a partial update. Moving a task to COMPLETED stamps
// completedAt.
func (s *TaskService) Update(ctx context.Context, ownerID, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil && *patch.Title == "" {
		patch.Title = nil
	}
	if patch.Status != nil && *patch.Status == models.TaskCompleted {
		now := s.now().UTC()
		patch.CompletedAt = &now
	}
	task, err := s.tasks.Update(ctx, ownerID, id, patch)
	if err != nil {
		return nil, fromStore(err, ErrTaskNotFound, "Failed to update task")
	}
	return task, nil
}

// Delete removes one of the owner's tasks
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return fromStore(s.tasks.Delete(ctx, ownerID, id), ErrTaskNotFound, "Failed to delete task")
}

// ExpenseInput is a validated expense creation request
type ExpenseInput struct {
	Amount      float64
	Category    models.ExpenseCategory
	Description *string
	Date        *time.Time
}

// ExpenseService manages the caller's expenses
type ExpenseService struct {
	expenses repositories.ExpenseRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewExpenseService creates an ExpenseService
func NewExpenseService(expenses repositories.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, logger: logger, now: time.Now}
}

// List returns the owner's expenses, newest first. The month window applies
// only when both month and year are given.
func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID, month, year *int) ([]models.Expense, error) {
	var from, to time.Time
	if month != nil && year != nil {
		from, to = models.MonthWindow(*year, time.Month(*month))
	}
	expenses, err := s.expenses.ListByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, WrapInternal("Failed to load expenses", err)
	}
	return expenses, nil
}

// Summary totals the owner's expenses for one month, defaulting to the
// current UTC month
func (s *ExpenseService) Summary(ctx context.Context, ownerID uuid.UUID, month, year *int) (*models.ExpenseSummary, error) {
	now := s.now().UTC()
	m, y := int(now.Month()), now.Year()
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}

	from, to := models.MonthWindow(y, time.Month(m))
	expenses, err := s.expenses.ListByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, WrapInternal("Failed to load expenses", err)
	}
	summary := models.Summarize(expenses)
	return &summary, nil
}

// Create records an expense. A missing date means now.
func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, in ExpenseInput) (*models.Expense, error) {
	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	expense := models.NewExpense(ownerID, in.Amount, in.Category, date)
	expense.Description = in.Description

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, WrapInternal("Failed to create expense", err)
	}
	return expense, nil
}

// Delete removes one of the owner's expenses
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return fromStore(s.expenses.Delete(ctx, ownerID, id), ErrExpenseNotFound, "Failed to delete expense")
}

// ItemInput is a validated shopping item request
type ItemInput struct {
	Name     string
	Quantity *int
	Unit     *string
}

// ShoppingService manages shopping lists and their items
type ShoppingService struct {
	shopping repositories.ShoppingRepository
	logger   *zap.Logger
}

// NewShoppingService creates a ShoppingService
func NewShoppingService(shopping repositories.ShoppingRepository, logger *zap.Logger) *ShoppingService {
	return &ShoppingService{shopping: shopping, logger: logger}
}

func (s *ShoppingService) Lists(ctx context.Context, ownerID uuid.UUID) ([]models.ShoppingList, error) {
	lists, err := s.shopping.ListLists(ctx, ownerID)
	if err != nil {
		return nil, WrapInternal("Failed to load lists", err)
	}
	return lists, nil
}

func (s *ShoppingService) GetList(ctx context.Context, ownerID, id uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.shopping.GetList(ctx, ownerID, id)
	if err != nil {
		return nil, fromStore(err, ErrListNotFound, "Failed to load list")
	}
	return list, nil
}

// CreateList creates a list; a blank name gets the default
func (s *ShoppingService) CreateList(ctx context.Context, ownerID uuid.UUID, name string) (*models.ShoppingList, error) {
	list := models.NewShoppingList(ownerID, name)
	if err := s.shopping.CreateList(ctx, list); err != nil {
		return nil, WrapInternal("Failed to create list", err)
	}
	return list, nil
}

// AddItem adds an item to one of the owner's lists
func (s *ShoppingService) AddItem(ctx context.Context, ownerID, listID uuid.UUID, in ItemInput) (*models.ShoppingItem, error) {
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	item := models.NewShoppingItem(listID, in.Name, quantity, in.Unit)
	if err := s.shopping.AddItem(ctx, ownerID, item); err != nil {
		return nil, fromStore(err, ErrListNotFound, "Failed to add item")
	}
	return item, nil
}

// UpdateItem patches an item reachable through one of the owner's lists
func (s *ShoppingService) UpdateItem(ctx context.Context, ownerID, id uuid.UUID, patch models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	if patch.Name != nil && *patch.Name == "" {
		patch.Name = nil
	}
	item, err := s.shopping.UpdateItem(ctx, ownerID, id, patch)
	if err != nil {
		return nil, fromStore(err, ErrItemNotFound, "Failed to update item")
	}
	return item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error {
	return fromStore(s.shopping.DeleteItem(ctx, ownerID, id), ErrItemNotFound, "Failed to delete item")
}

// KidProfileInput is a validated kid profile request
type KidProfileInput struct {
	Name       string
	BirthDate  *time.Time
	SchoolName *string
	Grade      *string
}

// HomeworkInput is a validated homework request
type HomeworkInput struct {
	Title       string
	Description *string
	DueDate     time.Time
}

// KidService manages the caller's kid profiles and their homework
type KidService struct {
	kids   repositories.KidRepository
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewKidService creates a KidService
func NewKidService(kids repositories.KidRepository, users repositories.UserRepository, logger *zap.Logger) *KidService {
	return &KidService{kids: kids, users: users, logger: logger}
}

func (s *KidService) Profiles(ctx context.Context, parentID uuid.UUID) ([]models.KidProfile, error) {
	profiles, err := s.kids.ListProfiles(ctx, parentID)
	if err != nil {
		return nil, WrapInternal("Failed to load profiles", err)
	}
	return profiles, nil
}

// GetProfile returns one of the parent's kids
func (s *KidService) GetProfile(ctx context.Context, parentID, id uuid.UUID) (*models.KidProfile, error) {
	profile, err := s.kids.GetProfile(ctx, parentID, id)
	if err != nil {
		return nil, fromStore(err, ErrProfileNotFound, "Failed to load profile")
	}
	return profile, nil
}

// CreateProfile adds a kid under the parent, in the parent's family
func (s *KidService) CreateProfile(ctx context.Context, parentID uuid.UUID, in KidProfileInput) (*models.KidProfile, error) {
	var familyID *uuid.UUID
	if parent, err := s.users.GetByID(ctx, parentID); err == nil {
		familyID = parent.FamilyID
	}

	profile := models.NewKidProfile(parentID, familyID, in.Name)
	profile.BirthDate = in.BirthDate
	profile.SchoolName = in.SchoolName
	profile.Grade = in.Grade

	if err := s.kids.CreateProfile(ctx, profile); err != nil {
		return nil, WrapInternal("Failed to create profile", err)
	}
	return profile, nil
}

func (s *KidService) UpdateProfile(ctx context.Context, parentID, id uuid.UUID, patch models.KidProfilePatch) (*models.KidProfile, error) {
	if patch.Name != nil && *patch.Name == "" {
		patch.Name = nil
	}
	profile, err := s.kids.UpdateProfile(ctx, parentID, id, patch)
	if err != nil {
		return nil, fromStore(err, ErrProfileNotFound, "Failed to update profile")
	}
	return profile, nil
}

func (s *KidService) DeleteProfile(ctx context.Context, parentID, id uuid.UUID) error {
	return fromStore(s.kids.DeleteProfile(ctx, parentID, id), ErrProfileNotFound, "Failed to delete profile")
}

// Homework lists the homework of all the parent's kids, soonest first
func (s *KidService) Homework(ctx context.Context, parentID uuid.UUID) ([]models.Homework, error) {
	hw, err := s.kids.ListHomework(ctx, parentID)
	if err != nil {
		return nil, WrapInternal("Failed to load homework", err)
	}
	return hw, nil
}

// KidHomework lists one kid's homework
func (s *KidService) KidHomework(ctx context.Context, parentID, kidID uuid.UUID) ([]models.Homework, error) {
	hw, err := s.kids.ListHomeworkForKid(ctx, parentID, kidID)
	if err != nil {
		return nil, fromStore(err, ErrProfileNotFound, "Failed to load homework")
	}
	return hw, nil
}

// CreateHomework adds homework for one of the parent's kids
func (s *KidService) CreateHomework(ctx context.Context, parentID, kidID uuid.UUID, in HomeworkInput) (*models.Homework, error) {
	hw := models.NewHomework(kidID, in.Title, in.DueDate)
	hw.Description = in.Description
	if err := s.kids.CreateHomework(ctx, parentID, hw); err != nil {
		return nil, fromStore(err, ErrProfileNotFound, "Failed to create homework")
	}
	return hw, nil
}

func (s *KidService) UpdateHomework(ctx context.Context, parentID, id uuid.UUID, patch models.HomeworkPatch) (*models.Homework, error) {
	if patch.Title != nil && *patch.Title == "" {
		patch.Title = nil
	}
	hw, err := s.kids.UpdateHomework(ctx, parentID, id, patch)
	if err != nil {
		return nil, fromStore(err, ErrHomeworkNotFound, "Failed to update homework")
	}
	return hw, nil
}

func (s *KidService) DeleteHomework(ctx context.Context, parentID, id uuid.UUID) error {
	return fromStore(s.kids.DeleteHomework(ctx, parentID, id), ErrHomeworkNotFound, "Failed to delete homework")
}
