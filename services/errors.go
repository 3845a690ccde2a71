package services

import (
	"errors"
	"fmt"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeRateLimit     ErrorType = "rate_limit"
	ErrorTypeMisconfigured ErrorType = "misconfigured"
	ErrorTypeInternal      ErrorType = "internal"
)

// Cause tags an internal or misconfiguration error with the condition that
// produced it. Handlers turn it into the response hint.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseDatabaseUnreachable
	CauseDatabaseMissing
	CauseSecretMissing
	CauseMigrationPending
)

// Hint returns the operator-facing hint for the cause, or "" for CauseUnknown
func (c Cause) Hint() string {
	switch c {
	case CauseDatabaseUnreachable:
		return "Database unreachable. Check DATABASE_URL and that the database server is running."
	case CauseDatabaseMissing:
		return "DATABASE_URL is not set. Configure a PostgreSQL connection string."
	case CauseSecretMissing:
		return "JWT_SECRET is not set or shorter than 16 characters."
	case CauseMigrationPending:
		return "Database tables missing. Run `homequeen migrate up`."
	default:
		return ""
	}
}

func (c Cause) String() string {
	switch c {
	case CauseDatabaseUnreachable:
		return "database_unreachable"
	case CauseDatabaseMissing:
		return "database_missing"
	case CauseSecretMissing:
		return "secret_missing"
	case CauseMigrationPending:
		return "migration_pending"
	default:
		return "unknown"
	}
}

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
	Cause   Cause
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on type and message, so a wrapped ErrTaskNotFound is not
// mistaken for ErrListNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables. The messages are the response bodies.

var (
	// Not Found Errors
	ErrUserNotFound     = NewDomainError(ErrorTypeNotFound, "User not found", nil)
	ErrTaskNotFound     = NewDomainError(ErrorTypeNotFound, "Task not found", nil)
	ErrExpenseNotFound  = NewDomainError(ErrorTypeNotFound, "Expense not found", nil)
	ErrListNotFound     = NewDomainError(ErrorTypeNotFound, "List not found", nil)
	ErrItemNotFound     = NewDomainError(ErrorTypeNotFound, "Item not found", nil)
	ErrProfileNotFound  = NewDomainError(ErrorTypeNotFound, "Profile not found", nil)
	ErrHomeworkNotFound = NewDomainError(ErrorTypeNotFound, "Homework not found", nil)
	ErrProviderNotFound = NewDomainError(ErrorTypeNotFound, "Provider not found", nil)
	ErrBookingNotFound  = NewDomainError(ErrorTypeNotFound, "Booking not found", nil)
	ErrEndpointNotFound = NewDomainError(ErrorTypeNotFound, "Endpoint not found", nil)

	// Validation Errors
	ErrInvalidInput         = NewDomainError(ErrorTypeValidation, "Invalid input", nil)
	ErrInvalidBody          = NewDomainError(ErrorTypeValidation, "Invalid request body", nil)
	ErrIdentifierRequired   = NewDomainError(ErrorTypeValidation, "Email or phone required", nil)
	ErrUserExists           = NewDomainError(ErrorTypeValidation, "User already exists with this email/phone", nil)
	ErrProviderNotAvailable = NewDomainError(ErrorTypeValidation, "Provider not available", nil)
	ErrPasswordTooLong      = NewDomainError(ErrorTypeValidation, "Password must be at most 72 bytes", nil)

	// Authorization Errors
	ErrAuthenticationRequired = NewDomainError(ErrorTypeUnauthorized, "Authentication required", nil)
	ErrInvalidToken           = NewDomainError(ErrorTypeUnauthorized, "Invalid or expired token", nil)
	ErrInvalidCredentials     = NewDomainError(ErrorTypeUnauthorized, "Invalid credentials", nil)

	// Permission Errors
	ErrInsufficientPermissions = NewDomainError(ErrorTypeForbidden, "Insufficient permissions", nil)
	ErrAdminSignupDisabled     = NewDomainError(ErrorTypeForbidden, "Admin accounts cannot be self-registered", nil)

	// Rate Limit Errors
	ErrTooManyLoginAttempts = NewDomainError(ErrorTypeRateLimit, "Too many login attempts", nil)

	// Misconfiguration Errors
	ErrMisconfigured = NewDomainError(ErrorTypeMisconfigured, "Server misconfigured", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "Internal server error", nil)
)

// Error type checking helper functions

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool { return isType(err, ErrorTypeUnauthorized) }

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool { return isType(err, ErrorTypeForbidden) }

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool { return isType(err, ErrorTypeRateLimit) }

// IsMisconfiguredError checks if an error reports a server misconfiguration
func IsMisconfiguredError(err error) bool { return isType(err, ErrorTypeMisconfigured) }

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool { return isType(err, ErrorTypeInternal) }

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetCause returns the cause carried by err. Storage failures that reached
// the service layer unwrapped are classified on the way out.
func GetCause(err error) Cause {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Cause != CauseUnknown {
		return domainErr.Cause
	}
	return causeOf(err)
}

func causeOf(err error) Cause {
	switch repositories.FailureOf(err) {
	case repositories.FailureUnreachable:
		return CauseDatabaseUnreachable
	case repositories.FailureSchemaMissing:
		return CauseMigrationPending
	default:
		return CauseUnknown
	}
}

// WrapInternal wraps an error as an internal error, carrying the storage
// failure classification as its cause.
func WrapInternal(message string, err error) *DomainError {
	e := NewDomainError(ErrorTypeInternal, message, err)
	e.Cause = causeOf(err)
	return e
}

// Misconfigured builds a 503 error for cause
func Misconfigured(cause Cause) *DomainError {
	e := NewDomainError(ErrorTypeMisconfigured, ErrMisconfigured.Message, nil)
	e.Cause = cause
	return e
}

// CauseForProblem maps a failed startup check to its cause
func CauseForProblem(p config.Problem) Cause {
	switch p {
	case config.ProblemDatabaseURL:
		return CauseDatabaseMissing
	case config.ProblemJWTSecret:
		return CauseSecretMissing
	default:
		return CauseUnknown
	}
}

// ProblemHint returns the response hint for a failed startup check
func ProblemHint(p config.Problem) string {
	return CauseForProblem(p).Hint()
}

// fromStore maps a repository error onto the service taxonomy. ErrNotFound
// becomes notFound; anything else is internal and carries its cause.
func fromStore(err error, notFound *DomainError, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return WrapInternal(message, err)
}
