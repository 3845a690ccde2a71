package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestNotificationProjector_BookingCreatedNotifiesProvider(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	p := NewNotificationProjector(repos.Notifications, zaptest.NewLogger(t))
	customer, providerUser := uuid.New(), uuid.New()

	err := p.Handle(ctx, RKBookingCreated, encode(t, BookingCreated{
		BookingID:      uuid.NewString(),
		UserID:         customer.String(),
		ProviderID:     uuid.NewString(),
		ProviderUserID: providerUser.String(),
		ScheduledAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Price:          150,
	}))
	require.NoError(t, err)

	got, err := repos.Notifications.ListByOwner(ctx, providerUser, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, NotificationBooking, got[0].Type)
	assert.Contains(t, got[0].Message, "2025-03-01 10:00")

	none, err := repos.Notifications.ListByOwner(ctx, customer, 50)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotificationProjector_StatusChangedNotifiesCustomer(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	p := NewNotificationProjector(repos.Notifications, zaptest.NewLogger(t))
	customer := uuid.New()

	require.NoError(t, p.Handle(ctx, RKBookingStatusChanged, encode(t, BookingStatusChanged{
		BookingID: uuid.NewString(),
		UserID:    customer.String(),
		Status:    "CONFIRMED",
	})))

	got, err := repos.Notifications.ListByOwner(ctx, customer, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Your booking is now CONFIRMED", got[0].Message)
}

func TestNotificationProjector_UserRegisteredWelcomes(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	p := NewNotificationProjector(repos.Notifications, zaptest.NewLogger(t))
	user := uuid.New()

	require.NoError(t, p.Handle(ctx, RKUserRegistered, encode(t, UserRegistered{UserID: user.String(), Name: "Amal"})))

	got, err := repos.Notifications.ListByOwner(ctx, user, 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, WelcomeTitle, got[0].Title)
	assert.Equal(t, NotificationInfo, got[0].Type)
	assert.False(t, got[0].IsRead)
}

func TestNotificationProjector_Rejects(t *testing.T) {
	p := NewNotificationProjector(memory.NewRepositories(memory.NewStore()).Notifications, zaptest.NewLogger(t))

	assert.Error(t, p.Handle(context.Background(), RKUserRegistered, []byte("{")))
	assert.Error(t, p.Handle(context.Background(), RKUserRegistered, encode(t, UserRegistered{UserID: "nope"})))
	assert.NoError(t, p.Handle(context.Background(), "payment.paid", []byte("{}")))
}
