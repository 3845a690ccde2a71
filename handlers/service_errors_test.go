package handlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleServiceError(t *testing.T) {
	unreachable := &repositories.StoreError{
		Op:      "list tasks",
		Failure: repositories.FailureUnreachable,
		Err:     &net.OpError{Op: "dial", Err: errors.New("connection refused")},
	}
	missingTable := &repositories.StoreError{
		Op:      "list tasks",
		Failure: repositories.FailureSchemaMissing,
		Err:     errors.New(`relation "tasks" does not exist`),
	}

	tests := []struct {
		name       string
		err        error
		showDetail bool
		wantStatus int
		wantBody   string
	}{
		{"not found", services.ErrTaskNotFound, false, http.StatusNotFound, `{"error":"Task not found"}`},
		{"validation", services.ErrIdentifierRequired, false, http.StatusBadRequest, `{"error":"Email or phone required"}`},
		{"unauthorized", services.ErrInvalidCredentials, false, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"forbidden", services.ErrInsufficientPermissions, false, http.StatusForbidden, `{"error":"Insufficient permissions"}`},
		{"rate limit", services.ErrTooManyLoginAttempts, false, http.StatusTooManyRequests, `{"error":"Too many login attempts"}`},
		{"invalid body", utils.ErrInvalidBody, false, http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"field validation", &utils.ValidationError{Message: "title is required"}, false, http.StatusBadRequest, `{"error":"title is required"}`},
		{
			"misconfigured carries hint",
			services.Misconfigured(services.CauseSecretMissing), false,
			http.StatusServiceUnavailable,
			fmt.Sprintf(`{"error":"Server misconfigured","hint":%q}`, services.CauseSecretMissing.Hint()),
		},
		{
			"internal hint without detail",
			services.WrapInternal("Registration failed", unreachable), false,
			http.StatusInternalServerError,
			fmt.Sprintf(`{"error":"Registration failed","hint":%q}`, services.CauseDatabaseUnreachable.Hint()),
		},
		{
			"internal hint with detail",
			services.WrapInternal("Failed to load tasks", missingTable), true,
			http.StatusInternalServerError,
			fmt.Sprintf(`{"error":"Failed to load tasks","hint":%q,"detail":%q}`,
				services.CauseMigrationPending.Hint(), missingTable.Error()),
		},
		{"internal unknown cause", services.WrapInternal("Login failed", errors.New("boom")), false, http.StatusInternalServerError, `{"error":"Login failed"}`},
		{"plain error", errors.New("boom"), true, http.StatusInternalServerError, `{"error":"Internal server error","detail":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

			HandleServiceError(w, r, tt.err, zap.NewNop(), tt.showDetail)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHandleServiceError_LogsServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)

	HandleServiceError(httptest.NewRecorder(), r, services.ErrUserExists, logger, false)
	HandleServiceError(httptest.NewRecorder(), r, services.WrapInternal("Registration failed", errors.New("boom")), logger, false)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "request failed", errs[0].Message)
		assert.Equal(t, "/api/auth/register", errs[0].ContextMap()["path"])
	}
}

func TestHandleServiceError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil, zap.NewNop(), false)
	assert.Zero(t, w.Body.Len())
}
