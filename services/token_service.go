package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homequeen/api/models"
)

// MinSecretLength is the shortest accepted HMAC secret
const MinSecretLength = 16

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string          `json:"userId"`
	Role   models.UserRole `json:"role"`
}

// TokenService issues and verifies HS256 access tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a token service. A secret shorter than
// MinSecretLength is rejected with a misconfiguration error.
func NewTokenService(secret string, ttl time.Duration, issuer string, now func() time.Time) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, Misconfigured(CauseSecretMissing)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: issuer, now: now}, nil
}

// Issue signs a token for the user
func (s *TokenService) Issue(userID uuid.UUID, role models.UserRole) (string, *TokenClaims, error) {
	now := s.now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID.String(),
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks the signature, algorithm, issuer and lifetime of a token.
// Every failure is reported as ErrInvalidToken wrapping the cause.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, invalidToken(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, invalidToken(fmt.Errorf("sub: %w", err))
	}
	if !claims.Role.IsValid() {
		return nil, invalidToken(fmt.Errorf("unknown role %q", claims.Role))
	}
	return claims, nil
}

func invalidToken(err error) error {
	return NewDomainError(ErrorTypeUnauthorized, ErrInvalidToken.Message, err)
}

// UserUUID returns the subject as a UUID. Verify guarantees it parses.
func (c *TokenClaims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
