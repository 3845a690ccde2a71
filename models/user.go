package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the household or marketplace role of an account
type UserRole string

const (
	RoleWife            UserRole = "WIFE"
	RoleHusband         UserRole = "HUSBAND"
	RoleKid             UserRole = "KID"
	RoleServiceProvider UserRole = "SERVICE_PROVIDER"
	RoleCompany         UserRole = "COMPANY"
	RoleAdmin           UserRole = "ADMIN"
)

// Roles lists every valid role
var Roles = []UserRole{RoleWife, RoleHusband, RoleKid, RoleServiceProvider, RoleCompany, RoleAdmin}

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is an account identified by email and/or phone.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        *string    `json:"email" db:"email"`
	Phone        *string    `json:"phone" db:"phone"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Avatar       *string    `json:"avatar" db:"avatar"`
	Role         UserRole   `json:"role" db:"role"`
	IsVerified   bool       `json:"isVerified" db:"is_verified"`
	FamilyID     *uuid.UUID `json:"familyId" db:"family_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, phone *string, name string, role UserRole) *User {
	now := time.Now().UTC()
	if role == "" {
		role = RoleWife
	}
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Phone:     phone,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// RegisteredView is the user shape returned by registration
type RegisteredView struct {
	ID         uuid.UUID `json:"id"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Name       string    `json:"name"`
	Role       UserRole  `json:"role"`
	IsVerified bool      `json:"isVerified"`
}

// SessionView is the user shape returned by login
type SessionView struct {
	ID         uuid.UUID  `json:"id"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Name       string     `json:"name"`
	Avatar     *string    `json:"avatar"`
	Role       UserRole   `json:"role"`
	IsVerified bool       `json:"isVerified"`
	FamilyID   *uuid.UUID `json:"familyId"`
}

// ProfileView is the user shape returned by /users/me
type ProfileView struct {
	ID         uuid.UUID  `json:"id"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Name       string     `json:"name"`
	Avatar     *string    `json:"avatar"`
	Role       UserRole   `json:"role"`
	IsVerified bool       `json:"isVerified"`
	FamilyID   *uuid.UUID `json:"familyId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (u *User) RegisteredView() RegisteredView {
	return RegisteredView{ID: u.ID, Email: u.Email, Phone: u.Phone, Name: u.Name, Role: u.Role, IsVerified: u.IsVerified}
}

func (u *User) SessionView() SessionView {
	return SessionView{
		ID: u.ID, Email: u.Email, Phone: u.Phone, Name: u.Name, Avatar: u.Avatar,
		Role: u.Role, IsVerified: u.IsVerified, FamilyID: u.FamilyID,
	}
}

func (u *User) ProfileView() ProfileView {
	return ProfileView{
		ID: u.ID, Email: u.Email, Phone: u.Phone, Name: u.Name, Avatar: u.Avatar,
		Role: u.Role, IsVerified: u.IsVerified, FamilyID: u.FamilyID, CreatedAt: u.CreatedAt,
	}
}

// UserSummary is the public face of a user shown next to providers
type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar *string   `json:"avatar"`
}
