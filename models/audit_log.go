package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of authentication event being audited
type AuditAction string

const (
	AuditActionUserRegistered AuditAction = "user_registered"
	AuditActionLoginSucceeded AuditAction = "login_succeeded"
	AuditActionLoginFailed    AuditAction = "login_failed"
	AuditActionLogout         AuditAction = "logout"
)

// AuditLog represents an audit trail entry for an auth event
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	Action     AuditAction     `json:"action" db:"action"`
	Identifier string          `json:"identifier" db:"identifier"` // email or phone, never the password
	Details    json.RawMessage `json:"details" db:"details"`
	IPAddress  string          `json:"ipAddress" db:"ip_address"`
	UserAgent  string          `json:"userAgent" db:"user_agent"`
	RequestID  string          `json:"requestId" db:"request_id"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(action AuditAction, identifier string) *AuditLog {
	return &AuditLog{
		ID:         uuid.New(),
		Action:     action,
		Identifier: identifier,
		Details:    json.RawMessage(`{}`),
		Timestamp:  time.Now().UTC(),
	}
}

// WithUser sets the user ID
func (a *AuditLog) WithUser(userID uuid.UUID) *AuditLog {
	a.UserID = &userID
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID, ipAddress, userAgent string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	a.UserAgent = userAgent
	return a
}

// RevokedToken is a denylisted token id, kept until the token would have expired
type RevokedToken struct {
	JTI       string    `json:"jti" db:"jti"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	RevokedAt time.Time `json:"revokedAt" db:"revoked_at"`
}

// TableName returns the table name for the RevokedToken model
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
