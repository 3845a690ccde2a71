// Package seed builds the demo household loaded by `homequeen seed`. Every
// row id is a UUIDv5 of a fixed name, so loading twice finds the same rows.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/models"
)

// Demo credentials
const (
	WifeEmail     = "wife@homequeen.com"
	ProviderEmail = "provider@homequeen.com"
	Password      = "password123"
)

// namespace scopes the seed ids
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://homequeen.com/seed"))

// ID returns the stable id of a named seed row
func ID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(name))
}

// Fixtures is the complete demo data set
type Fixtures struct {
	Wife          *models.User
	ProviderUser  *models.User
	Family        *models.Family
	Services      []models.Service
	Provider      models.Provider
	Tasks         []models.Task
	Expenses      []models.Expense
	Notifications []models.Notification
}

// Build returns the fixtures with passwordHash set on both accounts. now
// stamps every timestamp.
func Build(passwordHash string, now time.Time) *Fixtures {
	now = now.UTC()

	family := &models.Family{ID: ID("family/ahmed"), Name: "Ahmed Family", CreatedAt: now}

	wife := user("user/wife", WifeEmail, "Sara Ahmed", models.RoleWife, passwordHash, now)
	wife.FamilyID = &family.ID
	providerUser := user("user/provider", ProviderEmail, "Ahmed Hassan", models.RoleServiceProvider, passwordHash, now)

	services := []models.Service{
		service("service/cleaning", "Home Cleaning", "Deep cleaning for your home", models.CategoryCleaning, 150),
		service("service/plumbing", "Plumbing", "Fixes and installations", models.CategoryPlumbing, 200),
		service("service/babysitter", "Babysitting", "Professional childcare", models.CategoryBabysitter, 80),
	}

	bio := "Professional cleaner with 5+ years experience."
	provider := models.Provider{
		ID:          ID("provider/cleaner"),
		UserID:      providerUser.ID,
		ServiceID:   services[0].ID,
		Bio:         &bio,
		Rating:      4.8,
		ReviewCount: 24,
		IsApproved:  true,
		IsAvailable: true,
	}

	tasks := []models.Task{
		task("task/morning-cleaning", wife, "Morning cleaning", models.TaskPending, now),
		task("task/grocery-shopping", wife, "Grocery shopping", models.TaskPending, now),
		task("task/electricity-bill", wife, "Pay electricity bill", models.TaskCompleted, now),
	}
	tasks[2].CompletedAt = &now

	expenses := []models.Expense{
		expense("expense/groceries", wife, 500, models.ExpenseFood, "Groceries", now),
		expense("expense/electricity", wife, 350, models.ExpenseBills, "Electricity", now),
		expense("expense/school-supplies", wife, 200, models.ExpenseEducation, "School supplies", now),
	}

	welcome := models.Notification{
		ID:        ID("notification/welcome"),
		UserID:    wife.ID,
		Title:     events.WelcomeTitle,
		Message:   events.WelcomeMessage,
		Type:      events.NotificationInfo,
		CreatedAt: now,
	}

	return &Fixtures{
		Wife:          wife,
		ProviderUser:  providerUser,
		Family:        family,
		Services:      services,
		Provider:      provider,
		Tasks:         tasks,
		Expenses:      expenses,
		Notifications: []models.Notification{welcome},
	}
}

func user(name, email, displayName string, role models.UserRole, hash string, now time.Time) *models.User {
	return &models.User{
		ID:           ID(name),
		Email:        &email,
		PasswordHash: &hash,
		Name:         displayName,
		Role:         role,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func service(name, displayName, description string, category models.ServiceCategory, price float64) models.Service {
	return models.Service{
		ID:          ID(name),
		Name:        displayName,
		Description: &description,
		Category:    category,
		BasePrice:   price,
		IsActive:    true,
	}
}

func task(name string, owner *models.User, title string, status models.TaskStatus, now time.Time) models.Task {
	return models.Task{
		ID:        ID(name),
		UserID:    owner.ID,
		FamilyID:  owner.FamilyID,
		Title:     title,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func expense(name string, owner *models.User, amount float64, category models.ExpenseCategory, description string, now time.Time) models.Expense {
	return models.Expense{
		ID:          ID(name),
		UserID:      owner.ID,
		FamilyID:    owner.FamilyID,
		Amount:      amount,
		Category:    category,
		Description: &description,
		Date:        now,
		CreatedAt:   now,
	}
}
