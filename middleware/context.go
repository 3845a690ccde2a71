package middleware

import (
	"context"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/homequeen/api/models"
)

// Context key type to avoid collisions
type contextKey string

// identityKey is the context key for the authenticated caller
const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID    uuid.UUID
	Role      models.UserRole
	TokenID   string
	ExpiresAt time.Time
}

// HasRole reports whether the identity holds one of roles
func (i *Identity) HasRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// IdentityFromContext retrieves the caller identity, or nil when the request
// is anonymous
func IdentityFromContext(ctx context.Context) *Identity {
	if val := ctx.Value(identityKey); val != nil {
		if id, ok := val.(*Identity); ok {
			return id
		}
	}
	return nil
}

// WithIdentity adds the caller identity to the context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
