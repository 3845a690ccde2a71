package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/services/audit"
	"github.com/homequeen/api/services/ratelimit"
	"github.com/homequeen/api/services/revocation"
	"go.uber.org/zap"
)

// RegisterInput is a validated registration request
type RegisterInput struct {
	Email    *string
	Phone    *string
	Password string
	Name     string
	Role     models.UserRole
}

// LoginInput is a validated login request
type LoginInput struct {
	Email    *string
	Phone    *string
	Password string
}

// RegisterResult is returned by Register
type RegisterResult struct {
	User  models.RegisteredView `json:"user"`
	Token string                `json:"token"`
}

// LoginResult is returned by Login
type LoginResult struct {
	User  models.SessionView `json:"user"`
	Token string             `json:"token"`
}

// AuthService registers users and exchanges credentials for tokens
type AuthService struct {
	users       repositories.UserRepository
	hasher      *PasswordHasher
	tokens      *TokenService
	throttle    *ratelimit.Service
	revocations *revocation.Service
	audit       *audit.Service
	events      events.Publisher
	logger      *zap.Logger

	allowAdminSignup bool
}

// AuthServiceDeps groups the collaborators of AuthService
type AuthServiceDeps struct {
	Users       repositories.UserRepository
	Hasher      *PasswordHasher
	Tokens      *TokenService
	Throttle    *ratelimit.Service
	Revocations *revocation.Service
	Audit       *audit.Service
	Events      events.Publisher
	Logger      *zap.Logger

	// AllowAdminSignup permits registering with the ADMIN role
	AllowAdminSignup bool
}

// NewAuthService creates an AuthService
func NewAuthService(d AuthServiceDeps) *AuthService {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	return &AuthService{
		users:       d.Users,
		hasher:      d.Hasher,
		tokens:      d.Tokens,
		throttle:    d.Throttle,
		revocations: d.Revocations,
		audit:       d.Audit,
		events:      d.Events,
		logger:      d.Logger,

		allowAdminSignup: d.AllowAdminSignup,
	}
}

// Register creates a password account and signs the user in
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta audit.RequestMeta) (*RegisterResult, error) {
	email, phone := normalizeIdentifier(in.Email), normalizeIdentifier(in.Phone)
	if email == nil && phone == nil {
		return nil, ErrIdentifierRequired
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if in.Role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, ErrAdminSignupDisabled
	}

	if err := s.ensureAvailable(ctx, email, phone); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, WrapInternal("Registration failed", err)
	}

	user := models.NewUser(email, phone, in.Name, in.Role)
	user.PasswordHash = &hash
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, WrapInternal("Registration failed", err)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, WrapInternal("Registration failed", err)
	}

	identifier := identifierOf(email, phone)
	if err := s.audit.LogRegistered(user, identifier, meta); err != nil {
		s.logger.Warn("failed to queue audit event", zap.String("action", "user_registered"), zap.Error(err))
	}
	if err := s.events.Publish(ctx, events.RKUserRegistered, events.UserRegistered{
		UserID: user.ID.String(),
		Name:   user.Name,
	}); err != nil {
		s.logger.Error("failed to publish event", zap.String("routing_key", events.RKUserRegistered), zap.Error(err))
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &RegisterResult{User: user.RegisteredView(), Token: token}, nil
}

// ensureAvailable rejects identifiers that already belong to an account.
// The unique constraints catch what a concurrent registration slips past.
func (s *AuthService) ensureAvailable(ctx context.Context, email, phone *string) error {
	lookups := []struct {
		value *string
		get   func(context.Context, string) (*models.User, error)
	}{
		{email, s.users.GetByEmail},
		{phone, s.users.GetByPhone},
	}
	for _, l := range lookups {
		if l.value == nil {
			continue
		}
		_, err := l.get(ctx, *l.value)
		switch {
		case err == nil:
			return ErrUserExists
		case !errors.Is(err, repositories.ErrNotFound):
			return WrapInternal("Registration failed", err)
		}
	}
	return nil
}

// Login verifies credentials. Unknown identifiers, password-less accounts
// and wrong passwords all fail with ErrInvalidCredentials after one bcrypt
// comparison.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta audit.RequestMeta) (*LoginResult, error) {
	email, phone := normalizeIdentifier(in.Email), normalizeIdentifier(in.Phone)
	if email == nil && phone == nil {
		return nil, ErrIdentifierRequired
	}
	// no stored hash can match a longer password
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	identifier := identifierOf(email, phone)
	attempt := ratelimit.LoginAttempt{IP: meta.IPAddress, Identifier: identifier}

	limit, err := s.throttle.CheckLimit(ctx, attempt)
	if err != nil {
		return nil, WrapInternal("Login failed", err)
	}
	if !limit.Allowed {
		s.logger.Warn("login throttled",
			zap.String("request_id", meta.RequestID),
			zap.String("scope", limit.ViolatedScope),
			zap.String("reason", limit.ViolationReason))
		return nil, ErrTooManyLoginAttempts
	}

	var user *models.User
	if email != nil {
		user, err = s.users.GetByEmail(ctx, *email)
	} else {
		user, err = s.users.GetByPhone(ctx, *phone)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, WrapInternal("Login failed", err)
	}

	switch {
	case user == nil:
		s.hasher.BurnCompare(in.Password)
		return nil, s.loginFailed(ctx, attempt, "unknown_identifier", meta)
	case !user.HasPassword():
		s.hasher.BurnCompare(in.Password)
		return nil, s.loginFailed(ctx, attempt, "no_password", meta)
	case !s.hasher.Matches(*user.PasswordHash, in.Password):
		return nil, s.loginFailed(ctx, attempt, "wrong_password", meta)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, WrapInternal("Login failed", err)
	}

	if err := s.audit.LogLoginSucceeded(user.ID, identifier, meta); err != nil {
		s.logger.Warn("failed to queue audit event", zap.String("action", "login_succeeded"), zap.Error(err))
	}
	return &LoginResult{User: user.SessionView(), Token: token}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, attempt ratelimit.LoginAttempt, reason string, meta audit.RequestMeta) error {
	if err := s.throttle.RecordFailure(ctx, attempt); err != nil {
		s.logger.Error("failed to record login attempt", zap.Error(err))
	}
	if err := s.audit.LogLoginFailed(attempt.Identifier, reason, meta); err != nil {
		s.logger.Warn("failed to queue audit event", zap.String("action", "login_failed"), zap.Error(err))
	}
	s.logger.Warn("login failed",
		zap.String("request_id", meta.RequestID),
		zap.String("reason", reason))
	return ErrInvalidCredentials
}

// Logout denylists the presented token until it expires
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenID string, expiresAt time.Time, meta audit.RequestMeta) error {
	if err := s.revocations.Revoke(ctx, tokenID, userID, expiresAt); err != nil {
		return WrapInternal("Logout failed", err)
	}
	if err := s.audit.LogLogout(userID, tokenID, meta); err != nil {
		s.logger.Warn("failed to queue audit event", zap.String("action", "logout"), zap.Error(err))
	}
	return nil
}

// normalizeIdentifier trims the value and treats blank as absent
func normalizeIdentifier(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func identifierOf(email, phone *string) string {
	if email != nil {
		return *email
	}
	return *phone
}
