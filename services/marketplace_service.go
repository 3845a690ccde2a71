package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// ProviderReviewLimit is how many reviews a provider detail carries
const ProviderReviewLimit = 10

// BookingInput is a validated booking request
type BookingInput struct {
	ProviderID  uuid.UUID
	ScheduledAt time.Time
	Address     string
	Notes       *string
	Price       *float64
}

// ProviderFilter narrows the provider listing. Category wins over ServiceID
// when both are set.
type ProviderFilter struct {
	ServiceID *uuid.UUID
	Category  models.ServiceCategory
}

// MarketplaceService serves the service catalogue, providers, bookings and
// orders
type MarketplaceService struct {
	services  repositories.ServiceRepository
	providers repositories.ProviderRepository
	bookings  repositories.BookingRepository
	events    events.Publisher
	logger    *zap.Logger
}

// NewMarketplaceService creates a MarketplaceService
func NewMarketplaceService(
	services repositories.ServiceRepository,
	providers repositories.ProviderRepository,
	bookings repositories.BookingRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *MarketplaceService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &MarketplaceService{
		services:  services,
		providers: providers,
		bookings:  bookings,
		events:    publisher,
		logger:    logger,
	}
}

// Services returns the active catalogue with provider counts
func (s *MarketplaceService) Services(ctx context.Context) ([]models.Service, error) {
	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, WrapInternal("Failed to load services", err)
	}
	return services, nil
}

// Categories returns the static category list
func (s *MarketplaceService) Categories() []models.CategoryInfo {
	return models.Categories
}

// Providers lists approved providers. A category with no service yields an
// empty list.
func (s *MarketplaceService) Providers(ctx context.Context, f ProviderFilter) ([]models.Provider, error) {
	serviceID := f.ServiceID
	if f.Category != "" {
		id, err := s.services.FirstIDByCategory(ctx, f.Category)
		if errors.Is(err, repositories.ErrNotFound) {
			return []models.Provider{}, nil
		}
		if err != nil {
			return nil, WrapInternal("Failed to load providers", err)
		}
		serviceID = &id
	}

	providers, err := s.providers.ListApproved(ctx, serviceID)
	if err != nil {
		return nil, WrapInternal("Failed to load providers", err)
	}
	return providers, nil
}

// Provider returns a provider with its latest reviews
func (s *MarketplaceService) Provider(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.providers.GetByID(ctx, id, ProviderReviewLimit)
	if err != nil {
		return nil, fromStore(err, ErrProviderNotFound, "Failed to load provider")
	}
	return provider, nil
}

// Bookings returns the owner's bookings, latest visit first
func (s *MarketplaceService) Bookings(ctx context.Context, ownerID uuid.UUID) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, WrapInternal("Failed to load bookings", err)
	}
	return bookings, nil
}

// CreateBooking books an approved, available provider. The price defaults
// to the service's base price.
func (s *MarketplaceService) CreateBooking(ctx context.Context, ownerID uuid.UUID, in BookingInput) (*models.Booking, error) {
	provider, err := s.providers.GetByID(ctx, in.ProviderID, 0)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProviderNotAvailable
	}
	if err != nil {
		return nil, WrapInternal("Failed to create booking", err)
	}
	if !provider.Bookable() {
		return nil, ErrProviderNotAvailable
	}

	var price float64
	switch {
	case in.Price != nil:
		price = *in.Price
	case provider.Service != nil:
		price = provider.Service.BasePrice
	}

	booking := models.NewBooking(ownerID, provider.ID, in.ScheduledAt, in.Address, in.Notes, price)
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, WrapInternal("Failed to create booking", err)
	}
	provider.Reviews = nil
	booking.Provider = provider

	s.publish(ctx, events.RKBookingCreated, events.BookingCreated{
		BookingID:      booking.ID.String(),
		UserID:         ownerID.String(),
		ProviderID:     provider.ID.String(),
		ProviderUserID: provider.UserID.String(),
		ScheduledAt:    booking.ScheduledAt,
		Price:          booking.Price,
	})
	return booking, nil
}

// UpdateBookingStatus moves a booking to status. Providers reach only the
// bookings addressed to them; admins reach every booking.
func (s *MarketplaceService) UpdateBookingStatus(ctx context.Context, callerID uuid.UUID, role models.UserRole, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	var scope *uuid.UUID
	if role != models.RoleAdmin {
		scope = &callerID
	}

	booking, err := s.bookings.UpdateStatus(ctx, id, scope, status)
	if err != nil {
		return nil, fromStore(err, ErrBookingNotFound, "Failed to update booking")
	}

	s.publish(ctx, events.RKBookingStatusChanged, events.BookingStatusChanged{
		BookingID: booking.ID.String(),
		UserID:    booking.UserID.String(),
		Status:    string(booking.Status),
	})
	return booking, nil
}

// Orders returns the owner's orders, newest first
func (s *MarketplaceService) Orders(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error) {
	orders, err := s.bookings.ListOrders(ctx, ownerID)
	if err != nil {
		return nil, WrapInternal("Failed to load orders", err)
	}
	return orders, nil
}

func (s *MarketplaceService) publish(ctx context.Context, key string, event any) {
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.logger.Error("failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}

// NotificationLimit caps the notification listing
const NotificationLimit = 50

// NotificationService reads and acknowledges the caller's notifications
type NotificationService struct {
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates a NotificationService
func NewNotificationService(notifications repositories.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns the newest notifications
func (s *NotificationService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Notification, error) {
	list, err := s.notifications.ListByOwner(ctx, ownerID, NotificationLimit)
	if err != nil {
		return nil, WrapInternal("Failed to load notifications", err)
	}
	return list, nil
}

// MarkRead marks one notification read. Ids the owner cannot see are a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, ownerID, id); err != nil {
		return WrapInternal("Failed to update notification", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, ownerID uuid.UUID) error {
	if err := s.notifications.MarkAllRead(ctx, ownerID); err != nil {
		return WrapInternal("Failed to update notifications", err)
	}
	return nil
}
