// Package events carries domain events from the API to the notification
// projector, either over RabbitMQ or in-process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Routing keys
const (
	RKBookingCreated       = "booking.created"
	RKBookingStatusChanged = "booking.status_changed"
	RKUserRegistered       = "user.registered"
)

// Bindings are the routing patterns the notification queue listens on
var Bindings = []string{"booking.*", "user.*"}

// BookingCreated is published when a customer books a provider
type BookingCreated struct {
	BookingID      string    `json:"bookingId"`
	UserID         string    `json:"userId"`
	ProviderID     string    `json:"providerId"`
	ProviderUserID string    `json:"providerUserId"`
	ScheduledAt    time.Time `json:"scheduledAt"`
	Price          float64   `json:"price"`
}

// BookingStatusChanged is published when a provider or admin moves a booking
type BookingStatusChanged struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
}

// UserRegistered is published after a successful registration
type UserRegistered struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Publisher sends an event under a routing key
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Handler consumes one encoded event
type Handler interface {
	Handle(ctx context.Context, routingKey string, body []byte) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

func (f HandlerFunc) Handle(ctx context.Context, routingKey string, body []byte) error {
	return f(ctx, routingKey, body)
}

// Decode unmarshals an event payload
func Decode[T any](body []byte) (T, error) {
	var t T
	if err := json.Unmarshal(body, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
