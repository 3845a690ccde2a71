// Package memory provides map-backed repositories with the same ownership
// semantics as the PostgreSQL ones. They back router tests and local demos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
)

// Store holds every table behind one lock
type Store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*models.User
	families      map[uuid.UUID]*models.Family
	tasks         map[uuid.UUID]*models.Task
	expenses      map[uuid.UUID]*models.Expense
	lists         map[uuid.UUID]*models.ShoppingList
	items         map[uuid.UUID]*models.ShoppingItem
	kids          map[uuid.UUID]*models.KidProfile
	homework      map[uuid.UUID]*models.Homework
	services      map[uuid.UUID]*models.Service
	providers     map[uuid.UUID]*models.Provider
	reviews       map[uuid.UUID]*models.Review
	bookings      map[uuid.UUID]*models.Booking
	orders        map[uuid.UUID]*models.Order
	notifications map[uuid.UUID]*models.Notification
	audit         []models.AuditLog
	revoked       map[string]models.RevokedToken
	attempts      []attempt
}

type attempt struct {
	key string
	at  time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:         map[uuid.UUID]*models.User{},
		families:      map[uuid.UUID]*models.Family{},
		tasks:         map[uuid.UUID]*models.Task{},
		expenses:      map[uuid.UUID]*models.Expense{},
		lists:         map[uuid.UUID]*models.ShoppingList{},
		items:         map[uuid.UUID]*models.ShoppingItem{},
		kids:          map[uuid.UUID]*models.KidProfile{},
		homework:      map[uuid.UUID]*models.Homework{},
		services:      map[uuid.UUID]*models.Service{},
		providers:     map[uuid.UUID]*models.Provider{},
		reviews:       map[uuid.UUID]*models.Review{},
		bookings:      map[uuid.UUID]*models.Booking{},
		orders:        map[uuid.UUID]*models.Order{},
		notifications: map[uuid.UUID]*models.Notification{},
		revoked:       map[string]models.RevokedToken{},
	}
}

// NewRepositories returns every repository backed by s
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		Users:         userRepo{s},
		Families:      familyRepo{s},
		Tasks:         taskRepo{s},
		Expenses:      expenseRepo{s},
		Shopping:      shoppingRepo{s},
		Kids:          kidRepo{s},
		Services:      serviceRepo{s},
		Providers:     providerRepo{s},
		Bookings:      bookingRepo{s},
		Notifications: notificationRepo{s},
		AuditLogs:     auditRepo{s},
		Revocations:   revocationRepo{s},
		LoginAttempts: attemptRepo{s},
	}
}

// TransactionManager runs fn directly. The store has no partial-write states
// that a rollback would need to undo for the callers that use it.
type TransactionManager struct{}

func (TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return tx{ctx: ctx}, nil
}

func (m TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	t, _ := m.Begin(ctx)
	return fn(ctx, t)
}

type tx struct{ ctx context.Context }

func (tx) Commit() error               { return nil }
func (tx) Rollback() error             { return nil }
func (t tx) Context() context.Context { return t.ctx }

// Seed helpers for tests that need catalogue data

// AddService inserts a service
func (s *Store) AddService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = &svc
}

// AddProvider inserts a provider
func (s *Store) AddProvider(p models.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.User, p.Service, p.Reviews = nil, nil, nil
	s.providers[p.ID] = &p
}

// AddReview inserts a review
func (s *Store) AddReview(r models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = &r
}

// AddOrder inserts an order
func (s *Store) AddOrder(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.Booking = nil
	s.orders[o.ID] = &o
}

// SetRole changes a user's role
func (s *Store) SetRole(id uuid.UUID, role models.UserRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Role = role
	}
}

// UserCount returns the number of stored accounts
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if sameString(u.Email, other.Email) || sameString(u.Phone, other.Phone) {
			return repositories.ErrDuplicate
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email != nil && *u.Email == email })
}

func (r userRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (r userRepo) UpdateProfile(_ context.Context, id uuid.UUID, p repositories.UserProfilePatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.SetAvatar {
		u.Avatar = p.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (r userRepo) SetFamily(_ context.Context, id, familyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.FamilyID = &familyID
	return nil
}

type familyRepo struct{ s *Store }

func (r familyRepo) Create(_ context.Context, f *models.Family) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *f
	c.Members = nil
	r.s.families[f.ID] = &c
	return nil
}

func (r familyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Family, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.families[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *f
	c.Members = []models.FamilyMember{}
	for _, u := range sortedUsers(r.s.users) {
		if u.FamilyID != nil && *u.FamilyID == id {
			c.Members = append(c.Members, models.FamilyMember{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Role: u.Role})
		}
	}
	return &c, nil
}

func sortedUsers(m map[uuid.UUID]*models.User) []*models.User {
	out := make([]*models.User, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type taskRepo struct{ s *Store }

func (r taskRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Task{}
	for _, t := range r.s.tasks {
		if t.UserID == owner {
			out = append(out, *t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out, nil
}

func (r taskRepo) Create(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *t
	r.s.tasks[t.ID] = &c
	return nil
}

func (r taskRepo) Update(_ context.Context, owner, id uuid.UUID, p models.TaskPatch) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok || t.UserID != owner {
		return nil, repositories.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.SetDescription {
		t.Description = p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.SetDueDate {
		t.DueDate = p.DueDate
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
	t.UpdatedAt = time.Now().UTC()
	c := *t
	return &c, nil
}

func (r taskRepo) Delete(_ context.Context, owner, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok || t.UserID != owner {
		return repositories.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) ListByOwner(_ context.Context, owner uuid.UUID, from, to time.Time) ([]models.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Expense{}
	for _, e := range r.s.expenses {
		if e.UserID != owner {
			continue
		}
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r expenseRepo) Create(_ context.Context, e *models.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.expenses[e.ID] = &c
	return nil
}

func (r expenseRepo) Delete(_ context.Context, owner, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok || e.UserID != owner {
		return repositories.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

type shoppingRepo struct{ s *Store }

func (r shoppingRepo) itemsOf(listID uuid.UUID) []models.ShoppingItem {
	items := []models.ShoppingItem{}
	for _, it := range r.s.items {
		if it.ShoppingListID == listID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items
}

func (r shoppingRepo) ListLists(_ context.Context, owner uuid.UUID) ([]models.ShoppingList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.ShoppingList{}
	for _, l := range r.s.lists {
		if l.UserID == owner {
			c := *l
			c.Items = r.itemsOf(l.ID)
			c.ItemCount = len(c.Items)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r shoppingRepo) GetList(_ context.Context, owner, id uuid.UUID) (*models.ShoppingList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lists[id]
	if !ok || l.UserID != owner {
		return nil, repositories.ErrNotFound
	}
	c := *l
	c.Items = r.itemsOf(id)
	c.ItemCount = len(c.Items)
	return &c, nil
}

func (r shoppingRepo) CreateList(_ context.Context, l *models.ShoppingList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *l
	c.Items = nil
	r.s.lists[l.ID] = &c
	return nil
}

func (r shoppingRepo) ownsItem(owner uuid.UUID, it *models.ShoppingItem) bool {
	l, ok := r.s.lists[it.ShoppingListID]
	return ok && l.UserID == owner
}

func (r shoppingRepo) AddItem(_ context.Context, owner uuid.UUID, it *models.ShoppingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.ownsItem(owner, it) {
		return repositories.ErrNotFound
	}
	c := *it
	r.s.items[it.ID] = &c
	return nil
}

func (r shoppingRepo) UpdateItem(_ context.Context, owner, id uuid.UUID, p models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || !r.ownsItem(owner, it) {
		return nil, repositories.ErrNotFound
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.IsPurchased != nil {
		it.IsPurchased = *p.IsPurchased
	}
	c := *it
	return &c, nil
}

func (r shoppingRepo) DeleteItem(_ context.Context, owner, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || !r.ownsItem(owner, it) {
		return repositories.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

type kidRepo struct{ s *Store }

func (r kidRepo) countHomework(kidID uuid.UUID) int {
	n := 0
	for _, h := range r.s.homework {
		if h.KidID == kidID {
			n++
		}
	}
	return n
}

func (r kidRepo) ListProfiles(_ context.Context, parent uuid.UUID) ([]models.KidProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.KidProfile{}
	for _, k := range r.s.kids {
		if k.ParentID == parent {
			c := *k
			c.HomeworkCount = r.countHomework(k.ID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r kidRepo) owned(parent, id uuid.UUID) (*models.KidProfile, bool) {
	k, ok := r.s.kids[id]
	if !ok || k.ParentID != parent {
		return nil, false
	}
	return k, true
}

func (r kidRepo) GetProfile(_ context.Context, parent, id uuid.UUID) (*models.KidProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	k, ok := r.owned(parent, id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *k
	c.HomeworkCount = r.countHomework(id)
	return &c, nil
}

func (r kidRepo) CreateProfile(_ context.Context, p *models.KidProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.kids[p.ID] = &c
	return nil
}

func (r kidRepo) UpdateProfile(_ context.Context, parent, id uuid.UUID, p models.KidProfilePatch) (*models.KidProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k, ok := r.owned(parent, id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Name != nil {
		k.Name = *p.Name
	}
	if p.BirthDate != nil {
		k.BirthDate = p.BirthDate
	}
	if p.SchoolName != nil {
		k.SchoolName = p.SchoolName
	}
	if p.Grade != nil {
		k.Grade = p.Grade
	}
	c := *k
	c.HomeworkCount = r.countHomework(id)
	return &c, nil
}

func (r kidRepo) DeleteProfile(_ context.Context, parent, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.owned(parent, id); !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.kids, id)
	for hid, h := range r.s.homework {
		if h.KidID == id {
			delete(r.s.homework, hid)
		}
	}
	return nil
}

func (r kidRepo) ListHomework(_ context.Context, parent uuid.UUID) ([]models.Homework, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Homework{}
	for _, h := range r.s.homework {
		if k, ok := r.owned(parent, h.KidID); ok {
			c := *h
			c.Kid = &models.KidSummary{ID: k.ID, Name: k.Name}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r kidRepo) ListHomeworkForKid(_ context.Context, parent, kidID uuid.UUID) ([]models.Homework, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, ok := r.owned(parent, kidID); !ok {
		return nil, repositories.ErrNotFound
	}
	out := []models.Homework{}
	for _, h := range r.s.homework {
		if h.KidID == kidID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r kidRepo) CreateHomework(_ context.Context, parent uuid.UUID, hw *models.Homework) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.owned(parent, hw.KidID); !ok {
		return repositories.ErrNotFound
	}
	c := *hw
	c.Kid = nil
	r.s.homework[hw.ID] = &c
	return nil
}

func (r kidRepo) ownedHomework(parent, id uuid.UUID) (*models.Homework, bool) {
	h, ok := r.s.homework[id]
	if !ok {
		return nil, false
	}
	if _, ok := r.owned(parent, h.KidID); !ok {
		return nil, false
	}
	return h, true
}

func (r kidRepo) UpdateHomework(_ context.Context, parent, id uuid.UUID, p models.HomeworkPatch) (*models.Homework, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.ownedHomework(parent, id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = p.Description
	}
	if p.DueDate != nil {
		h.DueDate = *p.DueDate
	}
	if p.IsCompleted != nil {
		h.IsCompleted = *p.IsCompleted
	}
	c := *h
	return &c, nil
}

func (r kidRepo) DeleteHomework(_ context.Context, parent, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.ownedHomework(parent, id); !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.homework, id)
	return nil
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) ListActive(_ context.Context) ([]models.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Service{}
	for _, svc := range r.s.services {
		if !svc.IsActive {
			continue
		}
		c := *svc
		c.ProviderCount = 0
		for _, p := range r.s.providers {
			if p.ServiceID == svc.ID {
				c.ProviderCount++
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r serviceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if svc, ok := r.s.services[id]; ok {
		c := *svc
		return &c, nil
	}
	return nil, repositories.ErrNotFound
}

func (r serviceRepo) FirstIDByCategory(_ context.Context, category models.ServiceCategory) (uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for _, svc := range r.s.services {
		if svc.Category == category {
			ids = append(ids, svc.ID.String())
		}
	}
	if len(ids) == 0 {
		return uuid.Nil, repositories.ErrNotFound
	}
	sort.Strings(ids)
	return uuid.MustParse(ids[0]), nil
}

type providerRepo struct{ s *Store }

// expand attaches the user and service summaries; callers hold the lock
func (s *Store) expandProvider(p *models.Provider) models.Provider {
	c := *p
	if u, ok := s.users[p.UserID]; ok {
		c.User = &models.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	if svc, ok := s.services[p.ServiceID]; ok {
		c.Service = &models.ServiceSummary{ID: svc.ID, Name: svc.Name, Category: svc.Category, BasePrice: svc.BasePrice}
	}
	return c
}

func (r providerRepo) ListApproved(_ context.Context, serviceID *uuid.UUID) ([]models.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Provider{}
	for _, p := range r.s.providers {
		if !p.IsApproved || (serviceID != nil && p.ServiceID != *serviceID) {
			continue
		}
		out = append(out, r.s.expandProvider(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}

func (r providerRepo) GetByID(_ context.Context, id uuid.UUID, reviewLimit int) (*models.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.providers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := r.s.expandProvider(p)
	c.Reviews = []models.Review{}
	for _, rv := range r.s.reviews {
		if rv.ProviderID == id {
			x := *rv
			if u, ok := r.s.users[rv.UserID]; ok {
				x.User.Name = u.Name
			}
			c.Reviews = append(c.Reviews, x)
		}
	}
	sort.Slice(c.Reviews, func(i, j int) bool { return c.Reviews[i].CreatedAt.After(c.Reviews[j].CreatedAt) })
	if len(c.Reviews) > reviewLimit {
		c.Reviews = c.Reviews[:max(reviewLimit, 0)]
	}
	return &c, nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) expand(b *models.Booking) models.Booking {
	c := *b
	if p, ok := r.s.providers[b.ProviderID]; ok {
		ep := r.s.expandProvider(p)
		c.Provider = &ep
	}
	return c
}

func (r bookingRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range r.s.bookings {
		if b.UserID == owner {
			out = append(out, r.expand(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (r bookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	c.Provider = nil
	r.s.bookings[b.ID] = &c
	return nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, providerUserID *uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if providerUserID != nil {
		p, ok := r.s.providers[b.ProviderID]
		if !ok || p.UserID != *providerUserID {
			return nil, repositories.ErrNotFound
		}
	}
	b.Status = status
	c := *b
	return &c, nil
}

func (r bookingRepo) ListOrders(_ context.Context, owner uuid.UUID) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.s.orders {
		if o.UserID != owner {
			continue
		}
		c := *o
		if b, ok := r.s.bookings[o.BookingID]; ok {
			eb := r.expand(b)
			c.Booking = &eb
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) ListByOwner(_ context.Context, owner uuid.UUID, limit int) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == owner {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *n
	r.s.notifications[n.ID] = &c
	return nil
}

func (r notificationRepo) MarkRead(_ context.Context, owner, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok && n.UserID == owner {
		n.IsRead = true
	}
	return nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, owner uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.UserID == owner {
			n.IsRead = true
		}
	}
	return nil
}

type auditRepo struct{ s *Store }

func (r auditRepo) Insert(_ context.Context, l *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *l)
	return nil
}

func (r auditRepo) ListRecent(_ context.Context, limit int) ([]models.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.AuditLog, len(r.s.audit))
	copy(out, r.s.audit)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type revocationRepo struct{ s *Store }

func (r revocationRepo) Revoke(_ context.Context, t *models.RevokedToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.revoked[t.JTI]; !ok {
		r.s.revoked[t.JTI] = *t
	}
	return nil
}

func (r revocationRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[jti]
	return ok, nil
}

func (r revocationRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for jti, t := range r.s.revoked {
		if t.ExpiresAt.Before(now) {
			delete(r.s.revoked, jti)
			n++
		}
	}
	return n, nil
}

type attemptRepo struct{ s *Store }

func (r attemptRepo) Record(_ context.Context, key string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.attempts = append(r.s.attempts, attempt{key: key, at: at})
	return nil
}

func (r attemptRepo) Count(_ context.Context, key string, from, to time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.attempts {
		if strings.EqualFold(a.key, key) && !a.at.Before(from) && !a.at.After(to) {
			n++
		}
	}
	return n, nil
}

func (r attemptRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.attempts[:0]
	var n int64
	for _, a := range r.s.attempts {
		if a.at.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.s.attempts = kept
	return n, nil
}
