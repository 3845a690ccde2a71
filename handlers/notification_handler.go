package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/utils"
)

// NotificationHandler serves the caller's notifications
type NotificationHandler struct {
	Responder
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, r Responder) *NotificationHandler {
	return &NotificationHandler{Responder: r, notifications: notifications}
}

// HandleList handles GET /api/notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	list, err := h.notifications.List(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, list)
}

// HandleMarkRead handles PATCH /api/notifications/{id}/read. Ids the caller
// does not own, malformed ones included, are acknowledged without effect.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	notificationID, ok := utils.ParseUUID(chi.URLParam(r, "id"))
	if !ok {
		h.ack(w)
		return
	}
	if err := h.notifications.MarkRead(r.Context(), id.UserID, notificationID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ack(w)
}

// HandleMarkAllRead handles PATCH /api/notifications/read-all
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(r.Context(), id.UserID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ack(w)
}
