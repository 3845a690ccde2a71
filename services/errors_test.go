package services

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
	assert.Equal(t, CauseUnknown, domainErr.Cause)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name:    "error with wrapped error",
			err:     &DomainError{Type: ErrorTypeInternal, Message: "Login failed", Err: errors.New("db error")},
			wantMsg: "internal: Login failed (db error)",
		},
		{
			name:    "error without wrapped error",
			err:     &DomainError{Type: ErrorTypeValidation, Message: "Email or phone required"},
			wantMsg: "validation: Email or phone required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("update: %w", ErrTaskNotFound)

	assert.True(t, errors.Is(wrapped, ErrTaskNotFound))
	assert.False(t, errors.Is(wrapped, ErrListNotFound))
	assert.False(t, errors.Is(errors.New("other"), ErrTaskNotFound))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "bad", nil).
		WithDetail("field", "title").
		WithDetail("rule", "min")

	assert.Equal(t, "title", err.Details["field"])
	assert.Equal(t, "min", err.Details["rule"])

	bare := &DomainError{}
	bare.WithDetail("k", 1)
	assert.Equal(t, 1, bare.Details["k"])
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{ErrTaskNotFound, IsNotFoundError},
		{ErrIdentifierRequired, IsValidationError},
		{ErrInvalidCredentials, IsUnauthorizedError},
		{ErrInsufficientPermissions, IsForbiddenError},
		{ErrTooManyLoginAttempts, IsRateLimitError},
		{Misconfigured(CauseSecretMissing), IsMisconfiguredError},
		{ErrInternal, IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeForbidden, GetErrorType(ErrInsufficientPermissions))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestCause_Hint(t *testing.T) {
	assert.Empty(t, CauseUnknown.Hint())
	for _, c := range []Cause{CauseDatabaseUnreachable, CauseDatabaseMissing, CauseSecretMissing, CauseMigrationPending} {
		assert.NotEmpty(t, c.Hint(), c.String())
	}
	assert.Contains(t, CauseMigrationPending.Hint(), "migrate up")
}

func TestWrapInternal_CarriesStoreFailure(t *testing.T) {
	unreachable := &repositories.StoreError{Op: "get user", Failure: repositories.FailureUnreachable, Err: &net.OpError{Op: "dial"}}
	missing := &repositories.StoreError{Op: "list tasks", Failure: repositories.FailureSchemaMissing, Err: errors.New(`relation "tasks" does not exist`)}

	assert.Equal(t, CauseDatabaseUnreachable, WrapInternal("Login failed", unreachable).Cause)
	assert.Equal(t, CauseMigrationPending, WrapInternal("Login failed", missing).Cause)
	assert.Equal(t, CauseUnknown, WrapInternal("Login failed", errors.New("boom")).Cause)
}

func TestGetCause(t *testing.T) {
	assert.Equal(t, CauseSecretMissing, GetCause(Misconfigured(CauseSecretMissing)))

	raw := fmt.Errorf("scan: %w", &repositories.StoreError{Failure: repositories.FailureUnreachable, Err: errors.New("x")})
	assert.Equal(t, CauseDatabaseUnreachable, GetCause(raw))
	assert.Equal(t, CauseUnknown, GetCause(errors.New("plain")))
}

func TestFromStore(t *testing.T) {
	assert.NoError(t, fromStore(nil, ErrTaskNotFound, "x"))
	assert.Same(t, ErrTaskNotFound, fromStore(repositories.ErrNotFound, ErrTaskNotFound, "x"))
	assert.Same(t, ErrUserExists, fromStore(ErrUserExists, ErrTaskNotFound, "x"))

	err := fromStore(errors.New("boom"), ErrTaskNotFound, "Failed to update task")
	require.True(t, IsInternalError(err))
	assert.Equal(t, "Failed to update task", err.(*DomainError).Message)
}

func TestCauseForProblem(t *testing.T) {
	assert.Equal(t, CauseDatabaseMissing, CauseForProblem(config.ProblemDatabaseURL))
	assert.Equal(t, CauseSecretMissing, CauseForProblem(config.ProblemJWTSecret))
	assert.Equal(t, CauseUnknown, CauseForProblem("other"))
	assert.Contains(t, ProblemHint(config.ProblemJWTSecret), "JWT_SECRET")
}
