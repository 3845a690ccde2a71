package handlers

import (
	"net/http"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    *string         `json:"email" validate:"omitempty,email"`
	Phone    *string         `json:"phone"`
	Password string          `json:"password" validate:"min=6"`
	Name     string          `json:"name" validate:"min=2"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=WIFE HUSBAND KID SERVICE_PROVIDER COMPANY ADMIN"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" validate:"min=1"`
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	Responder
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, r Responder) *AuthHandler {
	return &AuthHandler{Responder: r, auth: auth}
}

// HandleRegister handles POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, res)
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), services.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, requestMeta(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, res)
}

// HandleLogout handles POST /api/auth/logout. The presented token stays
// denied until it would have expired.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), id.UserID, id.TokenID, id.ExpiresAt, requestMeta(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ack(w)
}
