package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	Context() context.Context
}

// UserProfilePatch carries a /users/me update. Avatar is applied only when
// SetAvatar is true, so it can be cleared with a nil value.
type UserProfilePatch struct {
	Name      *string
	Avatar    *string
	SetAvatar bool
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create inserts a user. A taken email or phone returns ErrDuplicate.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)

	// UpdateProfile applies the patch and returns the updated user
	UpdateProfile(ctx context.Context, id uuid.UUID, patch UserProfilePatch) (*models.User, error)

	// SetFamily attaches the user to a family
	SetFamily(ctx context.Context, id, familyID uuid.UUID) error
}

// FamilyRepository handles family data operations
type FamilyRepository interface {
	Create(ctx context.Context, family *models.Family) error

	// GetByID returns the family with its members
	GetByID(ctx context.Context, id uuid.UUID) (*models.Family, error)
}

// TaskRepository handles task data operations. Every read and write is
// restricted to rows owned by ownerID.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, ownerID, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ExpenseRepository handles expense data operations
type ExpenseRepository interface {
	// ListByOwner returns the owner's expenses, newest first. A zero from
	// or to leaves that side of the window open.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ShoppingRepository handles shopping lists and their items. Items are
// owned through their list.
type ShoppingRepository interface {
	ListLists(ctx context.Context, ownerID uuid.UUID) ([]models.ShoppingList, error)
	GetList(ctx context.Context, ownerID, id uuid.UUID) (*models.ShoppingList, error)
	CreateList(ctx context.Context, list *models.ShoppingList) error

	// AddItem inserts an item into a list owned by ownerID
	AddItem(ctx context.Context, ownerID uuid.UUID, item *models.ShoppingItem) error
	UpdateItem(ctx context.Context, ownerID, id uuid.UUID, patch models.ShoppingItemPatch) (*models.ShoppingItem, error)
	DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error
}

// KidRepository handles kid profiles and their homework. Homework is owned
// through the kid's parent.
type KidRepository interface {
	ListProfiles(ctx context.Context, parentID uuid.UUID) ([]models.KidProfile, error)
	GetProfile(ctx context.Context, parentID, id uuid.UUID) (*models.KidProfile, error)
	CreateProfile(ctx context.Context, profile *models.KidProfile) error
	UpdateProfile(ctx context.Context, parentID, id uuid.UUID, patch models.KidProfilePatch) (*models.KidProfile, error)
	DeleteProfile(ctx context.Context, parentID, id uuid.UUID) error

	// ListHomework returns homework across all of the parent's kids
	ListHomework(ctx context.Context, parentID uuid.UUID) ([]models.Homework, error)
	ListHomeworkForKid(ctx context.Context, parentID, kidID uuid.UUID) ([]models.Homework, error)
	CreateHomework(ctx context.Context, parentID uuid.UUID, hw *models.Homework) error
	UpdateHomework(ctx context.Context, parentID, id uuid.UUID, patch models.HomeworkPatch) (*models.Homework, error)
	DeleteHomework(ctx context.Context, parentID, id uuid.UUID) error
}

// ServiceRepository handles the service catalogue
type ServiceRepository interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)

	// FirstIDByCategory returns the id of the first service in a category
	FirstIDByCategory(ctx context.Context, category models.ServiceCategory) (uuid.UUID, error)
}

// ProviderRepository handles service providers and their reviews
type ProviderRepository interface {
	// ListApproved returns approved providers, optionally for one service
	ListApproved(ctx context.Context, serviceID *uuid.UUID) ([]models.Provider, error)

	// GetByID returns the provider with its service and latest reviews
	GetByID(ctx context.Context, id uuid.UUID, reviewLimit int) (*models.Provider, error)
}

// BookingRepository handles bookings and orders
type BookingRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error

	// UpdateStatus changes a booking's status. When providerUserID is set the
	// booking must be addressed to that user's provider profile.
	UpdateStatus(ctx context.Context, id uuid.UUID, providerUserID *uuid.UUID, status models.BookingStatus) (*models.Booking, error)

	ListOrders(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error)
}

// NotificationRepository handles in-app notifications
type NotificationRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) error
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	Insert(ctx context.Context, log *models.AuditLog) error

	// ListRecent returns the newest entries first
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// RevocationRepository stores the token denylist
type RevocationRepository interface {
	// Revoke records a token id. Revoking twice is not an error.
	Revoke(ctx context.Context, token *models.RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginAttemptRepository stores failed login events for throttling
type LoginAttemptRepository interface {
	Record(ctx context.Context, scopeKey string, at time.Time) error

	// Count returns the events for scopeKey in [from, to]
	Count(ctx context.Context, scopeKey string, from, to time.Time) (int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users         UserRepository
	Families      FamilyRepository
	Tasks         TaskRepository
	Expenses      ExpenseRepository
	Shopping      ShoppingRepository
	Kids          KidRepository
	Services      ServiceRepository
	Providers     ProviderRepository
	Bookings      BookingRepository
	Notifications NotificationRepository
	AuditLogs     AuditRepository
	Revocations   RevocationRepository
	LoginAttempts LoginAttemptRepository
}
