package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// Notification types written by the projector
const (
	NotificationBooking = "booking"
	NotificationInfo    = "info"
)

// Welcome notification text, shared with the seed command
const (
	WelcomeTitle   = "Welcome to Home Queen!"
	WelcomeMessage = "Start by adding your first task or tracking an expense."
)

// NotificationProjector turns domain events into notification rows
type NotificationProjector struct {
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationProjector creates a projector writing to repo
func NewNotificationProjector(repo repositories.NotificationRepository, logger *zap.Logger) *NotificationProjector {
	return &NotificationProjector{notifications: repo, logger: logger}
}

// Handle implements Handler. Unknown routing keys are ignored.
func (p *NotificationProjector) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RKBookingCreated:
		ev, err := Decode[BookingCreated](body)
		if err != nil {
			return err
		}
		return p.notify(ctx, ev.ProviderUserID, NotificationBooking,
			"New booking",
			fmt.Sprintf("You have a new booking on %s", ev.ScheduledAt.UTC().Format("2006-01-02 15:04")))

	case RKBookingStatusChanged:
		ev, err := Decode[BookingStatusChanged](body)
		if err != nil {
			return err
		}
		return p.notify(ctx, ev.UserID, NotificationBooking,
			"Booking updated",
			fmt.Sprintf("Your booking is now %s", ev.Status))

	case RKUserRegistered:
		ev, err := Decode[UserRegistered](body)
		if err != nil {
			return err
		}
		return p.notify(ctx, ev.UserID, NotificationInfo,
			WelcomeTitle, WelcomeMessage)

	default:
		p.logger.Debug("skipping event", zap.String("routing_key", routingKey))
		return nil
	}
}

func (p *NotificationProjector) notify(ctx context.Context, userID, kind, title, message string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("event user id: %w", err)
	}
	if err := p.notifications.Create(ctx, models.NewNotification(id, kind, title, message)); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
