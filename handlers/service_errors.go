package handlers

import (
	"errors"
	"net/http"

	"github.com/homequeen/api/internal/observability"
	"github.com/homequeen/api/middleware"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Internal errors
// carry the hint of their cause; detail is included only when showDetail
// is set.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger, showDetail bool) {
	if err == nil {
		return
	}

	var (
		status int
		body   utils.ErrorResponse
	)

	var domainErr *services.DomainError
	switch {
	case errors.Is(err, utils.ErrInvalidBody):
		status, body = http.StatusBadRequest, utils.ErrorResponse{Error: services.ErrInvalidBody.Message}

	case utils.IsValidationError(err):
		status, body = http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()}

	case errors.As(err, &domainErr):
		status = statusFor(domainErr.Type)
		body = utils.ErrorResponse{Error: domainErr.Message}
		switch domainErr.Type {
		case services.ErrorTypeMisconfigured:
			body.Hint = services.GetCause(err).Hint()
		case services.ErrorTypeInternal:
			body.Hint = services.GetCause(err).Hint()
			if showDetail && domainErr.Err != nil {
				body.Detail = domainErr.Err.Error()
			}
		}

	default:
		status = http.StatusInternalServerError
		body = utils.ErrorResponse{Error: services.ErrInternal.Message, Hint: services.GetCause(err).Hint()}
		if showDetail {
			body.Detail = err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("cause", services.GetCause(err).String()),
			zap.Error(err),
		}
		logger.Error("request failed", append(fields, observability.TraceFields(r.Context())...)...)
	} else {
		logger.Debug("handled service error",
			zap.Int("status", status),
			zap.String("message", body.Error))
	}

	if err := utils.WriteErrorResponse(w, status, body); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

func statusFor(t services.ErrorType) int {
	switch t {
	case services.ErrorTypeValidation:
		return http.StatusBadRequest
	case services.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorTypeForbidden:
		return http.StatusForbidden
	case services.ErrorTypeNotFound:
		return http.StatusNotFound
	case services.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case services.ErrorTypeMisconfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
