package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFamilyName is used when a family is created without a name
const DefaultFamilyName = "My Family"

// DefaultShoppingListName is used when a list is created without a name
const DefaultShoppingListName = "قائمة جديدة"

// Family groups users that share a household
type Family struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	Members   []FamilyMember `json:"members,omitempty"`
}

// TableName returns the table name for the Family model
func (Family) TableName() string {
	return "families"
}

// NewFamily creates a family with no members
func NewFamily(name string) *Family {
	return &Family{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
}

// FamilyMember is the member projection listed under a family
type FamilyMember struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar *string   `json:"avatar"`
	Role   UserRole  `json:"role"`
}

// TaskStatus represents the progress of a household task
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Task is a to-do item owned by one user
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"userId" db:"user_id"`
	FamilyID    *uuid.UUID `json:"familyId" db:"family_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a pending task for userID
func NewTask(userID uuid.UUID, title string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TaskPatch carries the optional fields of a task update. Nil means
// unchanged, except for Description and DueDate which are replaced (nil
// included) when their Set flag is true.
type TaskPatch struct {
	Title          *string
	Description    *string
	SetDescription bool
	Status         *TaskStatus
	Priority       *int
	DueDate        *time.Time
	SetDueDate     bool
	CompletedAt    *time.Time
}

// ExpenseCategory classifies household spending
type ExpenseCategory string

const (
	ExpenseFood          ExpenseCategory = "FOOD"
	ExpenseBills         ExpenseCategory = "BILLS"
	ExpenseEducation     ExpenseCategory = "EDUCATION"
	ExpenseHealth        ExpenseCategory = "HEALTH"
	ExpenseTransport     ExpenseCategory = "TRANSPORT"
	ExpenseShopping      ExpenseCategory = "SHOPPING"
	ExpenseEntertainment ExpenseCategory = "ENTERTAINMENT"
	ExpenseOther         ExpenseCategory = "OTHER"
)

// Expense is a single spending record
type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	FamilyID    *uuid.UUID      `json:"familyId" db:"family_id"`
	Amount      float64         `json:"amount" db:"amount"`
	Category    ExpenseCategory `json:"category" db:"category"`
	Description *string         `json:"description" db:"description"`
	Date        time.Time       `json:"date" db:"date"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense dated at date
func NewExpense(userID uuid.UUID, amount float64, category ExpenseCategory, date time.Time) *Expense {
	return &Expense{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Date:      date.UTC(),
		CreatedAt: time.Now().UTC(),
	}
}

// ExpenseSummary aggregates expenses over a month
type ExpenseSummary struct {
	Total      float64                     `json:"total"`
	ByCategory map[ExpenseCategory]float64 `json:"byCategory"`
	Count      int                         `json:"count"`
}

// Summarize totals expenses overall and per category
func Summarize(expenses []Expense) ExpenseSummary {
	s := ExpenseSummary{ByCategory: map[ExpenseCategory]float64{}, Count: len(expenses)}
	for _, e := range expenses {
		s.Total += e.Amount
		s.ByCategory[e.Category] += e.Amount
	}
	return s
}

// MonthWindow returns the first instant of the month and the last second of
// its final day, in UTC.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// ShoppingList is a named list of items owned by one user
type ShoppingList struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Name      string         `json:"name" db:"name"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	Items     []ShoppingItem `json:"items"`
	ItemCount int            `json:"itemCount"`
}

// TableName returns the table name for the ShoppingList model
func (ShoppingList) TableName() string {
	return "shopping_lists"
}

// NewShoppingList creates an empty list, falling back to the default name
func NewShoppingList(userID uuid.UUID, name string) *ShoppingList {
	if name == "" {
		name = DefaultShoppingListName
	}
	return &ShoppingList{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: time.Now().UTC(), Items: []ShoppingItem{}}
}

// ShoppingItem belongs to a list and is owned through it
type ShoppingItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ShoppingListID uuid.UUID `json:"shoppingListId" db:"shopping_list_id"`
	Name           string    `json:"name" db:"name"`
	Quantity       int       `json:"quantity" db:"quantity"`
	Unit           *string   `json:"unit" db:"unit"`
	IsPurchased    bool      `json:"isPurchased" db:"is_purchased"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the ShoppingItem model
func (ShoppingItem) TableName() string {
	return "shopping_items"
}

// NewShoppingItem creates an unpurchased item. A non-positive quantity
// becomes 1.
func NewShoppingItem(listID uuid.UUID, name string, quantity int, unit *string) *ShoppingItem {
	if quantity <= 0 {
		quantity = 1
	}
	return &ShoppingItem{
		ID:             uuid.New(),
		ShoppingListID: listID,
		Name:           name,
		Quantity:       quantity,
		Unit:           unit,
		CreatedAt:      time.Now().UTC(),
	}
}

// ShoppingItemPatch carries the optional fields of an item update
type ShoppingItemPatch struct {
	Name        *string
	Quantity    *int
	IsPurchased *bool
}

// KidProfile describes a child of the owning parent
type KidProfile struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ParentID      uuid.UUID  `json:"parentId" db:"parent_id"`
	FamilyID      *uuid.UUID `json:"familyId" db:"family_id"`
	Name          string     `json:"name" db:"name"`
	BirthDate     *time.Time `json:"birthDate" db:"birth_date"`
	SchoolName    *string    `json:"schoolName" db:"school_name"`
	Grade         *string    `json:"grade" db:"grade"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	HomeworkCount int        `json:"homeworkCount"`
}

// TableName returns the table name for the KidProfile model
func (KidProfile) TableName() string {
	return "kid_profiles"
}

// NewKidProfile creates a profile under parentID
func NewKidProfile(parentID uuid.UUID, familyID *uuid.UUID, name string) *KidProfile {
	return &KidProfile{ID: uuid.New(), ParentID: parentID, FamilyID: familyID, Name: name, CreatedAt: time.Now().UTC()}
}

// KidProfilePatch carries the optional fields of a profile update
type KidProfilePatch struct {
	Name       *string
	BirthDate  *time.Time
	SchoolName *string
	Grade      *string
}

// KidSummary is attached to homework in cross-kid listings
type KidSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Homework is an assignment for one kid, owned through the kid's parent
type Homework struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	KidID       uuid.UUID   `json:"kidId" db:"kid_id"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description" db:"description"`
	DueDate     time.Time   `json:"dueDate" db:"due_date"`
	IsCompleted bool        `json:"isCompleted" db:"is_completed"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	Kid         *KidSummary `json:"kid,omitempty"`
}

// TableName returns the table name for the Homework model
func (Homework) TableName() string {
	return "homework"
}

// NewHomework creates an open assignment for kidID
func NewHomework(kidID uuid.UUID, title string, dueDate time.Time) *Homework {
	return &Homework{ID: uuid.New(), KidID: kidID, Title: title, DueDate: dueDate.UTC(), CreatedAt: time.Now().UTC()}
}

// HomeworkPatch carries the optional fields of a homework update
type HomeworkPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsCompleted *bool
}

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(userID uuid.UUID, kind, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
}
