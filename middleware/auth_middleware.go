package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating bearer tokens
type TokenValidator interface {
	// ValidateToken verifies a token and returns the identity it carries
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// RevocationChecker reports whether a token id has been revoked
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
	msgForbidden    = "Insufficient permissions"
)

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	validator   TokenValidator
	revocations RevocationChecker
	logger      *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// WithRevocations makes the middleware reject tokens on the denylist
func (m *AuthMiddleware) WithRevocations(checker RevocationChecker) *AuthMiddleware {
	m.revocations = checker
	return m
}

// authenticate resolves a raw token into an identity. A revocation lookup
// failure rejects the token.
func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*Identity, error) {
	id, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if m.revocations != nil && id.TokenID != "" {
		revoked, err := m.revocations.IsRevoked(ctx, id.TokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errRevoked
		}
	}
	return id, nil
}

var errRevoked = errors.New("token revoked")

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, msgAuthRequired)
			return
		}

		id, err := m.authenticate(ctx, token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, msgInvalidToken)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", id.UserID.String()))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
	})
}

// OptionalAuth attaches the caller identity when a valid token is present
// and otherwise lets the request through anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.authenticate(r.Context(), token)
		if err != nil {
			m.logger.Debug("ignoring invalid optional token",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole is a middleware that requires one of roles. It must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			id := IdentityFromContext(ctx)
			if id == nil {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, msgAuthRequired)
				return
			}

			if !id.HasRole(roles...) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("role", string(id.Role)))
				_ = utils.WriteForbidden(w, msgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken returns the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-sensitively.
func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}
