package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordedEvent struct {
	key  string
	body []byte
}

type marketFixture struct {
	svc      *MarketplaceService
	store    *memory.Store
	repos    *repositories.Repositories
	events   *[]recordedEvent
	cleaning models.Service
	provider models.Provider
	busy     models.Provider
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositories(store)

	cleaning := models.Service{ID: uuid.New(), Name: "House cleaning", Category: models.CategoryCleaning, BasePrice: 150, IsActive: true}
	plumbing := models.Service{ID: uuid.New(), Name: "Plumbing", Category: models.CategoryPlumbing, BasePrice: 200, IsActive: true}
	retired := models.Service{ID: uuid.New(), Name: "Retired", Category: models.CategoryDelivery, IsActive: false}
	for _, s := range []models.Service{cleaning, plumbing, retired} {
		store.AddService(s)
	}

	providerUser := seedUser(t, repos)
	provider := models.Provider{ID: uuid.New(), UserID: providerUser.ID, ServiceID: cleaning.ID, Rating: 4.8, IsApproved: true, IsAvailable: true}
	busy := models.Provider{ID: uuid.New(), UserID: seedUser(t, repos).ID, ServiceID: plumbing.ID, Rating: 4.1, IsApproved: true}
	pending := models.Provider{ID: uuid.New(), UserID: seedUser(t, repos).ID, ServiceID: cleaning.ID, IsAvailable: true}
	for _, p := range []models.Provider{provider, busy, pending} {
		store.AddProvider(p)
	}

	var recorded []recordedEvent
	publisher := events.NewInProcessPublisher(zaptest.NewLogger(t),
		events.HandlerFunc(func(_ context.Context, key string, body []byte) error {
			recorded = append(recorded, recordedEvent{key, body})
			return nil
		}),
		events.NewNotificationProjector(repos.Notifications, zaptest.NewLogger(t)),
	)

	svc := NewMarketplaceService(repos.Services, repos.Providers, repos.Bookings, publisher, zaptest.NewLogger(t))
	return &marketFixture{svc: svc, store: store, repos: repos, events: &recorded, cleaning: cleaning, provider: provider, busy: busy}
}

func TestMarketplaceService_Catalogue(t *testing.T) {
	f := newMarketFixture(t)

	services, err := f.svc.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	for _, s := range services {
		if s.ID == f.cleaning.ID {
			assert.Equal(t, 2, s.ProviderCount)
		}
	}

	assert.Len(t, f.svc.Categories(), 8)
}

func TestMarketplaceService_Providers(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	all, err := f.svc.Providers(ctx, ProviderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "unapproved providers are hidden")

	byCategory, err := f.svc.Providers(ctx, ProviderFilter{Category: models.CategoryCleaning})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, f.provider.ID, byCategory[0].ID)
	require.NotNil(t, byCategory[0].Service)
	assert.Equal(t, 150.0, byCategory[0].Service.BasePrice)

	byService, err := f.svc.Providers(ctx, ProviderFilter{ServiceID: &f.busy.ServiceID})
	require.NoError(t, err)
	require.Len(t, byService, 1)
	assert.Equal(t, f.busy.ID, byService[0].ID)

	noService, err := f.svc.Providers(ctx, ProviderFilter{Category: models.CategoryBabysitter})
	require.NoError(t, err)
	assert.Empty(t, noService)
	assert.NotNil(t, noService)
}

func TestMarketplaceService_ProviderDetail(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	reviewer := seedUser(t, f.repos)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		f.store.AddReview(models.Review{
			ID: uuid.New(), ProviderID: f.provider.ID, UserID: reviewer.ID,
			Rating: 5, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	p, err := f.svc.Provider(ctx, f.provider.ID)
	require.NoError(t, err)
	require.Len(t, p.Reviews, ProviderReviewLimit)
	assert.Equal(t, reviewer.Name, p.Reviews[0].User.Name)
	assert.True(t, p.Reviews[0].CreatedAt.After(p.Reviews[1].CreatedAt))

	_, err = f.svc.Provider(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestMarketplaceService_CreateBooking(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	customer := uuid.New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	booking, err := f.svc.CreateBooking(ctx, customer, BookingInput{ProviderID: f.provider.ID, ScheduledAt: at, Address: "Street 1"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, booking.Price, "price defaults to the service base price")
	assert.Equal(t, models.BookingPending, booking.Status)
	require.NotNil(t, booking.Provider)
	assert.Equal(t, f.provider.ID, booking.Provider.ID)

	require.Len(t, *f.events, 1)
	assert.Equal(t, events.RKBookingCreated, (*f.events)[0].key)
	var ev events.BookingCreated
	require.NoError(t, json.Unmarshal((*f.events)[0].body, &ev))
	assert.Equal(t, f.provider.UserID.String(), ev.ProviderUserID)

	notes, err := f.repos.Notifications.ListByOwner(ctx, f.provider.UserID, 50)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	price := 99.5
	custom, err := f.svc.CreateBooking(ctx, customer, BookingInput{ProviderID: f.provider.ID, ScheduledAt: at, Address: "Street 2", Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 99.5, custom.Price)

	mine, err := f.svc.Bookings(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMarketplaceService_CreateBooking_ProviderNotAvailable(t *testing.T) {
	f := newMarketFixture(t)

	for _, id := range []uuid.UUID{f.busy.ID, uuid.New()} {
		_, err := f.svc.CreateBooking(context.Background(), uuid.New(), BookingInput{ProviderID: id, ScheduledAt: time.Now(), Address: "x"})
		assert.ErrorIs(t, err, ErrProviderNotAvailable)
	}
	assert.Empty(t, *f.events)
}

func TestMarketplaceService_UpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	customer := uuid.New()

	booking, err := f.svc.CreateBooking(ctx, customer, BookingInput{ProviderID: f.provider.ID, ScheduledAt: time.Now(), Address: "x"})
	require.NoError(t, err)

	// another provider cannot reach it
	_, err = f.svc.UpdateBookingStatus(ctx, f.busy.UserID, models.RoleServiceProvider, booking.ID, models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	updated, err := f.svc.UpdateBookingStatus(ctx, f.provider.UserID, models.RoleServiceProvider, booking.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	updated, err = f.svc.UpdateBookingStatus(ctx, uuid.New(), models.RoleAdmin, booking.ID, models.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, updated.Status)

	_, err = f.svc.UpdateBookingStatus(ctx, uuid.New(), models.RoleAdmin, uuid.New(), models.BookingCompleted)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	notes, err := f.repos.Notifications.ListByOwner(ctx, customer, 50)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestMarketplaceService_Orders(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	customer := uuid.New()

	booking, err := f.svc.CreateBooking(ctx, customer, BookingInput{ProviderID: f.provider.ID, ScheduledAt: time.Now(), Address: "x"})
	require.NoError(t, err)
	f.store.AddOrder(models.Order{ID: uuid.New(), UserID: customer, BookingID: booking.ID, Total: 150, Status: "PAID", CreatedAt: time.Now()})

	orders, err := f.svc.Orders(ctx, customer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Booking)
	assert.Equal(t, booking.ID, orders[0].Booking.ID)

	others, err := f.svc.Orders(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	svc := NewNotificationService(repos.Notifications, zaptest.NewLogger(t))
	owner, other := uuid.New(), uuid.New()

	for i := 0; i < NotificationLimit+5; i++ {
		require.NoError(t, repos.Notifications.Create(ctx, models.NewNotification(owner, "info", "t", "m")))
	}
	foreign := models.NewNotification(other, "info", "t", "m")
	require.NoError(t, repos.Notifications.Create(ctx, foreign))

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, NotificationLimit)

	require.NoError(t, svc.MarkRead(ctx, owner, foreign.ID), "unreachable ids are a no-op")
	require.NoError(t, svc.MarkRead(ctx, owner, list[0].ID))
	require.NoError(t, svc.MarkAllRead(ctx, owner))

	list, err = svc.List(ctx, owner)
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.IsRead)
	}

	theirs, err := svc.List(ctx, other)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.False(t, theirs[0].IsRead)
}
