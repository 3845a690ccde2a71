package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory groups marketplace services
type ServiceCategory string

const (
	CategoryCleaning     ServiceCategory = "CLEANING"
	CategoryPlumbing     ServiceCategory = "PLUMBING"
	CategoryElectrical   ServiceCategory = "ELECTRICAL"
	CategoryCarpentry    ServiceCategory = "CARPENTRY"
	CategoryCarMechanic  ServiceCategory = "CAR_MECHANIC"
	CategoryBabysitter   ServiceCategory = "BABYSITTER"
	CategoryDelivery     ServiceCategory = "DELIVERY"
	CategoryPrivateTutor ServiceCategory = "PRIVATE_TUTOR"
)

// CategoryInfo is the display entry for a category
type CategoryInfo struct {
	ID   ServiceCategory `json:"id"`
	Name string          `json:"name"`
	Icon string          `json:"icon"`
}

// Categories is the static category catalogue in display order
var Categories = []CategoryInfo{
	{CategoryCleaning, "Cleaning", "sparkles"},
	{CategoryPlumbing, "Plumbing", "wrench"},
	{CategoryElectrical, "Electrical", "zap"},
	{CategoryCarpentry, "Carpentry", "hammer"},
	{CategoryCarMechanic, "Car Mechanic", "car"},
	{CategoryBabysitter, "Babysitter", "baby"},
	{CategoryDelivery, "Delivery", "package"},
	{CategoryPrivateTutor, "Private Tutor", "book"},
}

// Service is a bookable offering
type Service struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   *string         `json:"description" db:"description"`
	Category      ServiceCategory `json:"category" db:"category"`
	BasePrice     float64         `json:"basePrice" db:"base_price"`
	ImageURL      *string         `json:"imageUrl" db:"image_url"`
	IsActive      bool            `json:"isActive" db:"is_active"`
	ProviderCount int             `json:"providerCount"`
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// ServiceSummary is the service projection shown next to providers
type ServiceSummary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  ServiceCategory `json:"category"`
	BasePrice float64         `json:"basePrice"`
}

// Provider is a user offering one service
type Provider struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	ServiceID   uuid.UUID       `json:"serviceId" db:"service_id"`
	Bio         *string         `json:"bio" db:"bio"`
	Rating      float64         `json:"rating" db:"rating"`
	ReviewCount int             `json:"reviewCount" db:"review_count"`
	IsApproved  bool            `json:"isApproved" db:"is_approved"`
	IsAvailable bool            `json:"isAvailable" db:"is_available"`
	User        *UserSummary    `json:"user,omitempty"`
	Service     *ServiceSummary `json:"service,omitempty"`
	Reviews     []Review        `json:"reviews,omitempty"`
}

// TableName returns the table name for the Provider model
func (Provider) TableName() string {
	return "providers"
}

// Bookable reports whether new bookings may be placed with the provider
func (p *Provider) Bookable() bool {
	return p.IsApproved && p.IsAvailable
}

// Reviewer is the name shown on a review
type Reviewer struct {
	Name string `json:"name"`
}

// Review is a customer's rating of a provider
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProviderID uuid.UUID `json:"providerId" db:"provider_id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    *string   `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	User       Reviewer  `json:"user"`
}

// TableName returns the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// BookingStatus tracks a booking through its lifecycle
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// Booking is a scheduled visit by a provider
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	UserID      uuid.UUID     `json:"userId" db:"user_id"`
	ProviderID  uuid.UUID     `json:"providerId" db:"provider_id"`
	Status      BookingStatus `json:"status" db:"status"`
	ScheduledAt time.Time     `json:"scheduledAt" db:"scheduled_at"`
	Address     string        `json:"address" db:"address"`
	Notes       *string       `json:"notes" db:"notes"`
	Price       float64       `json:"price" db:"price"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	Provider    *Provider     `json:"provider,omitempty"`
}

// TableName returns the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// NewBooking creates a pending booking
func NewBooking(userID, providerID uuid.UUID, scheduledAt time.Time, address string, notes *string, price float64) *Booking {
	return &Booking{
		ID:          uuid.New(),
		UserID:      userID,
		ProviderID:  providerID,
		Status:      BookingPending,
		ScheduledAt: scheduledAt.UTC(),
		Address:     address,
		Notes:       notes,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}
}

// Order is the billing record attached to a booking
type Order struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	BookingID uuid.UUID `json:"bookingId" db:"booking_id"`
	Total     float64   `json:"total" db:"total"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Booking   *Booking  `json:"booking,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
