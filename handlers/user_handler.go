package handlers

import (
	"net/http"

	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/services"
)

// UpdateMeRequest is the body of PATCH /api/users/me
type UpdateMeRequest struct {
	Name   *string        `json:"name"`
	Avatar nullableString `json:"avatar"`
}

// CreateFamilyRequest is the body of POST /api/family
type CreateFamilyRequest struct {
	Name string `json:"name"`
}

// UserHandler serves the caller's profile and family
type UserHandler struct {
	Responder
	users    *services.UserService
	families *services.FamilyService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, families *services.FamilyService, r Responder) *UserHandler {
	return &UserHandler{Responder: r, users: users, families: families}
}

// HandleMe handles GET /api/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	me, err := h.users.Me(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, me)
}

// HandleUpdateMe handles PATCH /api/users/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.users.UpdateMe(r.Context(), id.UserID, repositories.UserProfilePatch{
		Name:      req.Name,
		Avatar:    req.Avatar.Value,
		SetAvatar: req.Avatar.Set,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, user)
}

// HandleGetFamily handles GET /api/family. A caller without a family gets null.
func (h *UserHandler) HandleGetFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	family, err := h.families.Get(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, family)
}

// HandleCreateFamily handles POST /api/family
func (h *UserHandler) HandleCreateFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateFamilyRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	family, err := h.families.Create(r.Context(), id.UserID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, family)
}
