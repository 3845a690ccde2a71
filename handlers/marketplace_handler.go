package handlers

import (
	"net/http"
	"strings"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/utils"
)

// CreateBookingRequest is the body of POST /api/bookings
type CreateBookingRequest struct {
	ProviderID  string   `json:"providerId" validate:"required,uuid"`
	ScheduledAt string   `json:"scheduledAt" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	Notes       *string  `json:"notes"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
}

// UpdateBookingStatusRequest is the body of PATCH /api/bookings/{id}/status
type UpdateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
}

// MarketplaceHandler serves the catalogue, providers, bookings and orders
type MarketplaceHandler struct {
	Responder
	market *services.MarketplaceService
}

// NewMarketplaceHandler creates a new MarketplaceHandler
func NewMarketplaceHandler(market *services.MarketplaceService, r Responder) *MarketplaceHandler {
	return &MarketplaceHandler{Responder: r, market: market}
}

// HandleServices handles GET /api/services
func (h *MarketplaceHandler) HandleServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.market.Services(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, list)
}

// HandleCategories handles GET /api/services/categories
func (h *MarketplaceHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.ok(w, h.market.Categories())
}

// HandleProviders handles GET /api/providers?serviceId&category. A
// malformed serviceId matches nothing.
func (h *MarketplaceHandler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter services.ProviderFilter
	if raw := q.Get("serviceId"); raw != "" {
		id, ok := utils.ParseUUID(raw)
		if !ok {
			h.ok(w, []models.Provider{})
			return
		}
		filter.ServiceID = &id
	}
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		filter.Category = models.ServiceCategory(strings.ToUpper(c))
	}

	providers, err := h.market.Providers(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, providers)
}

// HandleProvider handles GET /api/providers/{id}
func (h *MarketplaceHandler) HandleProvider(w http.ResponseWriter, r *http.Request) {
	providerID, ok := h.pathID(w, r, "id", services.ErrProviderNotFound)
	if !ok {
		return
	}
	provider, err := h.market.Provider(r.Context(), providerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, provider)
}

// HandleBookings handles GET /api/bookings
func (h *MarketplaceHandler) HandleBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	bookings, err := h.market.Bookings(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, bookings)
}

// HandleCreateBooking handles POST /api/bookings
func (h *MarketplaceHandler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	at, err := parseDate("scheduledAt", req.ScheduledAt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	providerID, _ := utils.ParseUUID(req.ProviderID)

	booking, err := h.market.CreateBooking(r.Context(), id.UserID, services.BookingInput{
		ProviderID:  providerID,
		ScheduledAt: at,
		Address:     req.Address,
		Notes:       req.Notes,
		Price:       req.Price,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, booking)
}

// HandleUpdateBookingStatus handles PATCH /api/bookings/{id}/status
func (h *MarketplaceHandler) HandleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	bookingID, ok := h.pathID(w, r, "id", services.ErrBookingNotFound)
	if !ok {
		return
	}
	var req UpdateBookingStatusRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.market.UpdateBookingStatus(r.Context(), id.UserID, id.Role, bookingID, req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, booking)
}

// HandleOrders handles GET /api/orders
func (h *MarketplaceHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	orders, err := h.market.Orders(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, orders)
}
