package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return Wrap(sqlDB, zaptest.NewLogger(t)), mock
}

var userCols = []string{"id", "email", "phone", "password_hash", "name", "avatar", "role", "is_verified", "family_id", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zaptest.NewLogger(t))

	email := gofakeit.Email()
	user := models.NewUser(&email, nil, gofakeit.Name(), models.RoleWife)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, email, nil, nil, user.Name, nil, "WIFE", false, nil, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zaptest.NewLogger(t))

	email := gofakeit.Email()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), models.NewUser(&email, nil, "A", models.RoleWife))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id := uuid.New()
	now := time.Now().UTC()
	email := "a@x.com"

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), email, nil, "$2a$10$hash", "Amal", nil, "WIFE", false, nil, now, now))

	user, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	require.NotNil(t, user.Email)
	assert.Equal(t, email, *user.Email)
	assert.Nil(t, user.Phone)
	assert.Nil(t, user.FamilyID)
	assert.True(t, user.HasPassword())
	assert.Equal(t, models.RoleWife, user.Role)

	mock.ExpectQuery(`FROM users WHERE phone = \$1`).
		WithArgs("0500").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = repo.GetByPhone(ctx, "0500")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zaptest.NewLogger(t))

	id := uuid.New()
	now := time.Now().UTC()
	name := "Noura"

	mock.ExpectQuery(`UPDATE users SET name = COALESCE\(\$2, name\)`).
		WithArgs(id, name, true, nil).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), nil, "0500", nil, name, nil, "HUSBAND", true, nil, now, now))

	user, err := repo.UpdateProfile(context.Background(), id, repositories.UserProfilePatch{Name: &name, SetAvatar: true})
	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
	assert.Nil(t, user.Avatar)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zaptest.NewLogger(t))

	owner := uuid.New()
	now := time.Now().UTC()
	cols := []string{"id", "user_id", "family_id", "title", "description", "status", "priority", "due_date", "completed_at", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 ORDER BY priority DESC, due_date ASC NULLS LAST`)).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), owner.String(), nil, "Buy milk", nil, "PENDING", 2, nil, nil, now, now).
			AddRow(uuid.NewString(), owner.String(), nil, "Laundry", "whites", "COMPLETED", 0, now, now, now, now))

	tasks, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, models.TaskCompleted, tasks[1].Status)
	require.NotNil(t, tasks[1].Description)
	assert.Equal(t, "whites", *tasks[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByOwner_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zaptest.NewLogger(t))

	mock.ExpectQuery(`FROM tasks`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tasks, err := repo.ListByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepository_Update_NotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zaptest.NewLogger(t))

	owner, id := uuid.New(), uuid.New()
	title := "Renamed"

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND user_id = $2`)).
		WithArgs(id, owner, title, false, nil, nil, nil, false, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Update(context.Background(), owner, id, models.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db, zaptest.NewLogger(t))
	ctx := context.Background()

	owner, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`)).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, owner, id))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND user_id = $2`)).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, owner, id), repositories.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_ListByOwner_MonthWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db, zaptest.NewLogger(t))

	owner := uuid.New()
	from, to := models.MonthWindow(2025, time.March)

	mock.ExpectQuery(`FROM expenses WHERE user_id = \$1`).
		WithArgs(owner, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "family_id", "amount", "category", "description", "date", "created_at"}).
			AddRow(uuid.NewString(), owner.String(), nil, "120.50", "FOOD", nil, from, from))

	expenses, err := repo.ListByOwner(context.Background(), owner, from, to)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 120.5, expenses[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShoppingRepository_AddItem_ScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShoppingRepository(db, zaptest.NewLogger(t))

	owner := uuid.New()
	item := &models.ShoppingItem{ID: uuid.New(), ShoppingListID: uuid.New(), Name: "Milk", Quantity: 1, CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta(`WHERE l.id = $2 AND l.user_id = $8`)).
		WithArgs(item.ID, item.ShoppingListID, "Milk", 1, nil, false, item.CreatedAt, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddItem(context.Background(), owner, item)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShoppingRepository_DeleteItem_JoinsThroughList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewShoppingRepository(db, zaptest.NewLogger(t))

	owner, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`USING shopping_lists l WHERE i.id = $1 AND l.id = i.shopping_list_id AND l.user_id = $2`)).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteItem(context.Background(), owner, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKidRepository_UpdateHomework_JoinsThroughParent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewKidRepository(db, zaptest.NewLogger(t))

	parent, id := uuid.New(), uuid.New()
	done := true

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE h.id = $1 AND k.id = h.kid_id AND k.parent_id = $2`)).
		WithArgs(id, parent, nil, nil, nil, true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateHomework(context.Background(), parent, id, models.HomeworkPatch{IsCompleted: &done})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus_ProviderScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db, zaptest.NewLogger(t))

	id, providerUser := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`b.provider_id IN (SELECT id FROM providers WHERE user_id = $3)`)).
		WithArgs(id, "CONFIRMED", providerUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "provider_id", "status", "scheduled_at", "address", "notes", "price", "created_at"}).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), "CONFIRMED", now, "Street 1", nil, 150.0, now))

	b, err := repo.UpdateStatus(context.Background(), id, &providerUser, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginAttemptRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoginAttemptRepository(db, zaptest.NewLogger(t))

	now := time.Now()
	from := now.Add(-time.Minute)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM login_attempts`).
		WithArgs("login:ip:10.0.0.1", from, now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), "login:ip:10.0.0.1", from, now)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationRepository_IsRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRevocationRepository(db, zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTransactionManager_InTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zaptest.NewLogger(t))
		families := NewFamilyRepository(db, zaptest.NewLogger(t))
		users := NewUserRepository(db, zaptest.NewLogger(t))

		family := &models.Family{ID: uuid.New(), Name: "Ahmed Family", CreatedAt: time.Now()}
		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO families`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE users SET family_id`).WithArgs(userID, family.ID).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.InTransaction(context.Background(), func(ctx context.Context, _ repositories.Transaction) error {
			if err := families.Create(ctx, family); err != nil {
				return err
			}
			return users.SetFamily(ctx, userID, family.ID)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zaptest.NewLogger(t))

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := tm.InTransaction(context.Background(), func(ctx context.Context, _ repositories.Transaction) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_HealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()
	db := Wrap(sqlDB, zaptest.NewLogger(t))

	mock.ExpectPing()
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	require.NoError(t, db.HealthCheck(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, db.HealthCheck(context.Background()))
}
