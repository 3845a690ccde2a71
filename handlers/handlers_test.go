package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/homequeen/api/config"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/middleware"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/repositories/memory"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/services/audit"
	"github.com/homequeen/api/services/ratelimit"
	"github.com/homequeen/api/services/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store  *memory.Store
	repos  *repositories.Repositories
	router chi.Router
	audit  *audit.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := memory.NewStore()
	repos := memory.NewRepositories(store)
	resp := Responder{Logger: logger, ShowDetail: true}

	tokens, err := services.NewTokenService(strings.Repeat("k", 32), time.Hour, "home-queen", nil)
	require.NoError(t, err)
	auditSvc := audit.NewService(repos.AuditLogs, logger, audit.DefaultConfig())
	require.NoError(t, auditSvc.Start())
	t.Cleanup(func() { _ = auditSvc.Stop(time.Second) })
	publisher := events.NewInProcessPublisher(logger, events.NewNotificationProjector(repos.Notifications, logger))

	authSvc := services.NewAuthService(services.AuthServiceDeps{
		Users:       repos.Users,
		Hasher:      services.NewPasswordHasher(bcrypt.MinCost),
		Tokens:      tokens,
		Throttle:    ratelimit.NewService(repos.LoginAttempts, config.RateLimitConfig{}, logger),
		Revocations: revocation.NewService(repos.Revocations, 10, logger),
		Audit:       auditSvc,
		Events:      publisher,
		Logger:      logger,
	})

	auth := NewAuthHandler(authSvc, resp)
	users := NewUserHandler(services.NewUserService(repos.Users, logger),
		services.NewFamilyService(repos.Families, repos.Users, memory.TransactionManager{}, logger), resp)
	tasks := NewTaskHandler(services.NewTaskService(repos.Tasks, logger), resp)
	expenses := NewExpenseHandler(services.NewExpenseService(repos.Expenses, logger), resp)
	shopping := NewShoppingHandler(services.NewShoppingService(repos.Shopping, logger), resp)
	kids := NewKidHandler(services.NewKidService(repos.Kids, repos.Users, logger), resp)
	market := NewMarketplaceHandler(services.NewMarketplaceService(repos.Services, repos.Providers, repos.Bookings, publisher, logger), resp)
	notes := NewNotificationHandler(services.NewNotificationService(repos.Notifications, logger), resp)
	admin := NewAdminHandler(auditSvc, resp)

	r := chi.NewRouter()
	r.Post("/auth/register", auth.HandleRegister)
	r.Post("/auth/login", auth.HandleLogin)
	r.Post("/auth/logout", auth.HandleLogout)
	r.Get("/users/me", users.HandleMe)
	r.Patch("/users/me", users.HandleUpdateMe)
	r.Get("/family", users.HandleGetFamily)
	r.Post("/family", users.HandleCreateFamily)
	r.Get("/tasks", tasks.HandleList)
	r.Post("/tasks", tasks.HandleCreate)
	r.Patch("/tasks/{id}", tasks.HandleUpdate)
	r.Delete("/tasks/{id}", tasks.HandleDelete)
	r.Get("/expenses", expenses.HandleList)
	r.Get("/expenses/summary", expenses.HandleSummary)
	r.Post("/expenses", expenses.HandleCreate)
	r.Post("/shopping/lists", shopping.HandleCreateList)
	r.Post("/shopping/lists/{id}/items", shopping.HandleAddItem)
	r.Patch("/shopping/items/{id}", shopping.HandleUpdateItem)
	r.Post("/kids/profiles", kids.HandleCreateProfile)
	r.Post("/kids/profiles/{kidId}/homework", kids.HandleCreateHomework)
	r.Get("/kids/homework", kids.HandleListHomework)
	r.Get("/providers", market.HandleProviders)
	r.Post("/bookings", market.HandleCreateBooking)
	r.Patch("/bookings/{id}/status", market.HandleUpdateBookingStatus)
	r.Get("/notifications", notes.HandleList)
	r.Patch("/notifications/{id}/read", notes.HandleMarkRead)
	r.Get("/admin/audit", admin.HandleAudit)

	return &fixture{store: store, repos: repos, router: r, audit: auditSvc}
}

// user creates a stored account and returns its identity
func (f *fixture) user(t *testing.T, role models.UserRole) *middleware.Identity {
	t.Helper()
	email := gofakeit.Email()
	u := models.NewUser(&email, nil, gofakeit.Name(), role)
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return &middleware.Identity{UserID: u.ID, Role: role, TokenID: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour)}
}

func (f *fixture) do(t *testing.T, id *middleware.Identity, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if id != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), id))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthHandler_RegisterLoginLogout(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, nil, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1","name":"Amal"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reg := decodeBody[map[string]any](t, w)
	assert.NotEmpty(t, reg["token"])
	assert.Equal(t, "WIFE", reg["user"].(map[string]any)["role"])
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(t, nil, http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1","name":"Amal"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"User already exists with this email/phone"}`, w.Body.String())

	w = f.do(t, nil, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeBody[map[string]any](t, w)
	assert.Contains(t, login["user"], "familyId")

	w = f.do(t, nil, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	id := f.user(t, models.RoleWife)
	w = f.do(t, id, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"email":`, `{"error":"Invalid request body"}`},
		{"no identifier", `{"password":"secret1","name":"Amal"}`, `{"error":"Email or phone required"}`},
		{"bad email", `{"email":"nope","password":"secret1","name":"Amal"}`, `{"error":"email must be a valid email"}`},
		{"short password", `{"email":"b@x.com","password":"123","name":"Amal"}`, `{"error":"password must be at least 6 characters"}`},
		{"short name", `{"email":"b@x.com","password":"secret1","name":"A"}`, `{"error":"name must be at least 2 characters"}`},
		{"unknown role", `{"email":"b@x.com","password":"secret1","name":"Amal","role":"KING"}`, `{"error":"role must be one of: WIFE HUSBAND KID SERVICE_PROVIDER COMPANY ADMIN"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, nil, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestAuthHandler_RegisterRejectedBeforeHashing(t *testing.T) {
	f := newFixture(t)

	long := strings.Repeat("a", 80)
	w := f.do(t, nil, http.MethodPost, "/auth/register", `{"email":"long@x.com","password":"`+long+`","name":"Long"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at most 72 bytes"}`, w.Body.String())

	w = f.do(t, nil, http.MethodPost, "/auth/login", `{"email":"long@x.com","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at most 72 bytes"}`, w.Body.String())

	w = f.do(t, nil, http.MethodPost, "/auth/register", `{"email":"root@x.com","password":"secret1","name":"Root","role":"ADMIN"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Admin accounts cannot be self-registered"}`, w.Body.String())

	assert.Zero(t, f.store.UserCount())
}

func TestHandlers_RequireIdentity(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, nil, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
}

func TestUserHandler(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, models.RoleWife)

	w := f.do(t, id, http.MethodPatch, "/users/me", `{"name":"","avatar":"https://img/a.png"}`)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody[map[string]any](t, w)
	assert.Equal(t, "https://img/a.png", me["avatar"])
	assert.NotEmpty(t, me["name"])

	w = f.do(t, id, http.MethodPatch, "/users/me", `{"avatar":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody[map[string]any](t, w)["avatar"])

	w = f.do(t, id, http.MethodGet, "/users/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody[map[string]any](t, w), "createdAt")

	w = f.do(t, id, http.MethodGet, "/family", "")
	assert.Equal(t, "null\n", w.Body.String())

	w = f.do(t, id, http.MethodPost, "/family", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultFamilyName, decodeBody[map[string]any](t, w)["name"])

	w = f.do(t, id, http.MethodGet, "/family", "")
	family := decodeBody[map[string]any](t, w)
	assert.Len(t, family["members"], 1)

	w = f.do(t, &middleware.Identity{UserID: uuid.New()}, http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

func TestTaskHandler(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(t, models.RoleWife), f.user(t, models.RoleHusband)

	w := f.do(t, owner, http.MethodPost, "/tasks", `{"title":"Buy milk","priority":2,"dueDate":"2025-03-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decodeBody[models.Task](t, w)
	assert.Equal(t, models.TaskPending, task.Status)
	require.NotNil(t, task.DueDate)
	path := "/tasks/" + task.ID.String()

	for name, tc := range map[string]struct {
		body, want string
	}{
		"missing title":  {`{}`, `{"error":"title is required"}`},
		"bad status":     {`{"title":"x","status":"DONE"}`, `{"error":"status must be one of: PENDING IN_PROGRESS COMPLETED CANCELLED"}`},
		"bad due date":   {`{"title":"x","dueDate":"tomorrow"}`, `{"error":"dueDate must be a valid date"}`},
		"malformed body": {`[`, `{"error":"Invalid request body"}`},
	} {
		t.Run(name, func(t *testing.T) {
			w := f.do(t, owner, http.MethodPost, "/tasks", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}

	w = f.do(t, other, http.MethodPatch, path, `{"status":"COMPLETED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = f.do(t, owner, http.MethodPatch, "/tasks/not-a-uuid", `{"status":"COMPLETED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = f.do(t, owner, http.MethodPatch, path, `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decodeBody[models.Task](t, w).CompletedAt)

	w = f.do(t, other, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, owner, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w = f.do(t, owner, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTaskHandler_UpdateClearsOptionalFields(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.RoleWife)

	w := f.do(t, owner, http.MethodPost, "/tasks", `{"title":"Pay rent","description":"before the 5th","dueDate":"2025-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/tasks/" + decodeBody[models.Task](t, w).ID.String()

	// absent keys leave the fields alone
	w = f.do(t, owner, http.MethodPatch, path, `{"priority":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task := decodeBody[models.Task](t, w)
	require.NotNil(t, task.Description)
	assert.Equal(t, "before the 5th", *task.Description)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, 1, task.Priority)

	w = f.do(t, owner, http.MethodPatch, path, `{"dueDate":"2025-04-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task = decodeBody[models.Task](t, w)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.April, task.DueDate.Month())

	w = f.do(t, owner, http.MethodPatch, path, `{"description":null,"dueDate":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task = decodeBody[models.Task](t, w)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, "Pay rent", task.Title)

	w = f.do(t, owner, http.MethodPatch, path, `{"dueDate":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"dueDate must be a valid date"}`, w.Body.String())
}

func TestExpenseHandler(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, models.RoleWife)

	w := f.do(t, owner, http.MethodPost, "/expenses", `{"amount":120.5,"category":"FOOD","date":"2024-02-10"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, owner, http.MethodPost, "/expenses", `{"amount":0,"category":"FOOD"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"amount must be greater than 0"}`, w.Body.String())

	w = f.do(t, owner, http.MethodPost, "/expenses", `{"amount":5,"category":"TOYS"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, owner, http.MethodGet, "/expenses/summary?month=2&year=2024", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":120.5,"byCategory":{"FOOD":120.5},"count":1}`, w.Body.String())

	w = f.do(t, owner, http.MethodGet, "/expenses?month=3&year=2024", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(t, owner, http.MethodGet, "/expenses?month=13", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"month must be an integer between 1 and 12"}`, w.Body.String())
}

func TestShoppingHandler(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(t, models.RoleWife), f.user(t, models.RoleWife)

	w := f.do(t, owner, http.MethodPost, "/shopping/lists", `{}`)
	require.Equal(t, http.StatusCreated, w.Code)
	list := decodeBody[models.ShoppingList](t, w)
	assert.Equal(t, models.DefaultShoppingListName, list.Name)
	items := "/shopping/lists/" + list.ID.String() + "/items"

	w = f.do(t, other, http.MethodPost, items, `{"name":"Eggs"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"List not found"}`, w.Body.String())

	w = f.do(t, owner, http.MethodPost, items, `{"name":"Eggs","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, owner, http.MethodPost, items, `{"name":"Eggs"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	item := decodeBody[models.ShoppingItem](t, w)
	assert.Equal(t, 1, item.Quantity)

	w = f.do(t, other, http.MethodPatch, "/shopping/items/"+item.ID.String(), `{"isPurchased":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, w.Body.String())

	w = f.do(t, owner, http.MethodPatch, "/shopping/items/"+item.ID.String(), `{"isPurchased":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBody[models.ShoppingItem](t, w).IsPurchased)
}

func TestKidHandler_HomeworkOwnershipBeforeValidation(t *testing.T) {
	f := newFixture(t)
	parent, other := f.user(t, models.RoleWife), f.user(t, models.RoleWife)

	w := f.do(t, parent, http.MethodPost, "/kids/profiles", `{"name":"Sara","birthDate":"2016-05-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kid := decodeBody[models.KidProfile](t, w)
	homework := "/kids/profiles/" + kid.ID.String() + "/homework"

	w = f.do(t, other, http.MethodPost, homework, `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Profile not found"}`, w.Body.String())

	w = f.do(t, parent, http.MethodPost, homework, `{"title":"Math"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"dueDate is required"}`, w.Body.String())

	w = f.do(t, parent, http.MethodPost, homework, `{"title":"Math","dueDate":"2025-03-02T08:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, parent, http.MethodGet, "/kids/homework", "")
	list := decodeBody[[]models.Homework](t, w)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Kid)
	assert.Equal(t, "Sara", list[0].Kid.Name)

	w = f.do(t, other, http.MethodGet, "/kids/homework", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestMarketplaceHandler_Bookings(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleWife)
	providerUser := f.user(t, models.RoleServiceProvider)
	otherProvider := f.user(t, models.RoleServiceProvider)

	svc := models.Service{ID: uuid.New(), Name: "Cleaning", Category: models.CategoryCleaning, BasePrice: 150, IsActive: true}
	f.store.AddService(svc)
	provider := models.Provider{ID: uuid.New(), UserID: providerUser.UserID, ServiceID: svc.ID, IsApproved: true, IsAvailable: true}
	f.store.AddProvider(provider)

	w := f.do(t, nil, http.MethodGet, "/providers?category=cleaning", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Provider](t, w), 1)

	w = f.do(t, nil, http.MethodGet, "/providers?serviceId=garbage", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(t, customer, http.MethodPost, "/bookings", `{"providerId":"`+uuid.NewString()+`","scheduledAt":"2025-03-01T10:00:00Z","address":"Home"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Provider not available"}`, w.Body.String())

	w = f.do(t, customer, http.MethodPost, "/bookings", `{"providerId":"`+provider.ID.String()+`","scheduledAt":"2025-03-01T10:00:00Z","address":"Home"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decodeBody[models.Booking](t, w)
	assert.Equal(t, 150.0, booking.Price)
	status := "/bookings/" + booking.ID.String() + "/status"

	w = f.do(t, otherProvider, http.MethodPatch, status, `{"status":"CONFIRMED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Booking not found"}`, w.Body.String())

	w = f.do(t, providerUser, http.MethodPatch, status, `{"status":"SHIPPED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, providerUser, http.MethodPatch, status, `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BookingConfirmed, decodeBody[models.Booking](t, w).Status)

	w = f.do(t, customer, http.MethodGet, "/notifications", "")
	notes := decodeBody[[]models.Notification](t, w)
	require.Len(t, notes, 1)
	assert.Equal(t, "Booking updated", notes[0].Title)

	w = f.do(t, customer, http.MethodPatch, "/notifications/"+notes[0].ID.String()+"/read", "")
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	w = f.do(t, customer, http.MethodPatch, "/notifications/garbage/read", "")
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = f.do(t, customer, http.MethodGet, "/notifications", "")
	assert.True(t, decodeBody[[]models.Notification](t, w)[0].IsRead)
}

func TestAdminHandler_Audit(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, nil, http.MethodPost, "/auth/register", `{"phone":"+20100000000","password":"secret1","name":"Amal"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, f.audit.Stop(time.Second))

	w = f.do(t, nil, http.MethodGet, "/admin/audit?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	logs := decodeBody[[]models.AuditLog](t, w)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionUserRegistered, logs[0].Action)

	w = f.do(t, nil, http.MethodGet, "/admin/audit?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
