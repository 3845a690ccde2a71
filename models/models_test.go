package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// User tests
func TestNewUser(t *testing.T) {
	email := "a@x.com"

	user := NewUser(&email, nil, "Amal", "")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, &email, user.Email)
	assert.Nil(t, user.Phone)
	assert.Equal(t, RoleWife, user.Role)
	assert.False(t, user.IsVerified)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		role UserRole
		want bool
	}{
		{RoleAdmin, true},
		{RoleWife, false},
		{RoleServiceProvider, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := &User{Role: tt.role}
			assert.Equal(t, tt.want, u.IsAdmin())
		})
	}
}

func TestUserRole_IsValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.IsValid(), r)
	}
	assert.False(t, UserRole("wife").IsValid())
	assert.False(t, UserRole("").IsValid())
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	hash := "$2a$10$secret"
	u := NewUser(nil, nil, "Amal", RoleWife)
	u.PasswordHash = &hash

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"isVerified":false`)
}

func TestUser_HasPassword(t *testing.T) {
	empty := ""
	hash := "$2a$10$x"
	assert.False(t, (&User{}).HasPassword())
	assert.False(t, (&User{PasswordHash: &empty}).HasPassword())
	assert.True(t, (&User{PasswordHash: &hash}).HasPassword())
}

func TestUser_Views(t *testing.T) {
	email := "a@x.com"
	family := uuid.New()
	u := NewUser(&email, nil, "Amal", RoleHusband)
	u.FamilyID = &family

	reg := u.RegisteredView()
	assert.Equal(t, u.ID, reg.ID)
	assert.Equal(t, RoleHusband, reg.Role)

	sess := u.SessionView()
	assert.Equal(t, &family, sess.FamilyID)

	prof := u.ProfileView()
	assert.Equal(t, u.CreatedAt, prof.CreatedAt)
}

// Household tests
func TestNewTask(t *testing.T) {
	owner := uuid.New()

	task := NewTask(owner, "Buy milk")

	assert.Equal(t, owner, task.UserID)
	assert.Equal(t, TaskPending, task.Status)
	assert.Zero(t, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, "tasks", task.TableName())
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2024, time.February)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), end)
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		{Amount: 100, Category: ExpenseFood},
		{Amount: 50.5, Category: ExpenseFood},
		{Amount: 20, Category: ExpenseTransport},
	}

	s := Summarize(expenses)

	assert.Equal(t, 170.5, s.Total)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 150.5, s.ByCategory[ExpenseFood])
	assert.Equal(t, 20.0, s.ByCategory[ExpenseTransport])

	empty := Summarize(nil)
	assert.NotNil(t, empty.ByCategory)
	assert.Zero(t, empty.Count)
}

// Marketplace tests
func TestCategories(t *testing.T) {
	require.Len(t, Categories, 8)
	assert.Equal(t, CategoryInfo{CategoryCleaning, "Cleaning", "sparkles"}, Categories[0])
	assert.Equal(t, CategoryInfo{CategoryPrivateTutor, "Private Tutor", "book"}, Categories[7])
}

func TestProvider_Bookable(t *testing.T) {
	assert.True(t, (&Provider{IsApproved: true, IsAvailable: true}).Bookable())
	assert.False(t, (&Provider{IsApproved: true}).Bookable())
	assert.False(t, (&Provider{IsAvailable: true}).Bookable())
}

func TestNewBooking(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("AST", 3*3600))

	b := NewBooking(uuid.New(), uuid.New(), at, "Street 1", nil, 150)

	assert.Equal(t, BookingPending, b.Status)
	assert.Equal(t, time.UTC, b.ScheduledAt.Location())
	assert.True(t, at.Equal(b.ScheduledAt))
}

// Audit tests
func TestNewAuditLog(t *testing.T) {
	log := NewAuditLog(AuditActionLoginFailed, "a@x.com")

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, AuditActionLoginFailed, log.Action)
	assert.Equal(t, "a@x.com", log.Identifier)
	assert.JSONEq(t, `{}`, string(log.Details))
	assert.False(t, log.Timestamp.IsZero())
}

func TestAuditLog_BuilderMethods(t *testing.T) {
	userID := uuid.New()

	log := NewAuditLog(AuditActionLoginSucceeded, "0500000000").
		WithUser(userID).
		WithDetails(map[string]string{"reason": "ok"}).
		WithRequest("req-1", "10.0.0.1", "curl/8")

	require.NotNil(t, log.UserID)
	assert.Equal(t, userID, *log.UserID)
	assert.JSONEq(t, `{"reason":"ok"}`, string(log.Details))
	assert.Equal(t, "req-1", log.RequestID)
	assert.Equal(t, "10.0.0.1", log.IPAddress)
	assert.Equal(t, "curl/8", log.UserAgent)
	assert.Equal(t, "audit_logs", log.TableName())
}

func TestNewShoppingList_DefaultName(t *testing.T) {
	owner := uuid.New()

	assert.Equal(t, DefaultShoppingListName, NewShoppingList(owner, "").Name)
	assert.Equal(t, "Weekly", NewShoppingList(owner, "Weekly").Name)
	assert.NotNil(t, NewShoppingList(owner, "").Items)
}

func TestNewShoppingItem_DefaultQuantity(t *testing.T) {
	list := uuid.New()

	assert.Equal(t, 1, NewShoppingItem(list, "Milk", 0, nil).Quantity)
	assert.Equal(t, 3, NewShoppingItem(list, "Eggs", 3, nil).Quantity)
}

func TestNewExpense_NormalizesDate(t *testing.T) {
	date := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("AST", 3*3600))

	e := NewExpense(uuid.New(), 12.5, ExpenseFood, date)

	assert.Equal(t, time.UTC, e.Date.Location())
	assert.True(t, date.Equal(e.Date))
}

func TestFamily_JSONOmitsEmptyMembers(t *testing.T) {
	data, err := json.Marshal(NewFamily(DefaultFamilyName))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "members")
	assert.Contains(t, string(data), `"name":"My Family"`)
}
