package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T, now *time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, 7*24*time.Hour, "home-queen", func() time.Time { return *now })
	require.NoError(t, err)
	return svc
}

// spliceSignature puts the signature of donor on the header and payload of token
func spliceSignature(token, donor string) string {
	return token[:strings.LastIndex(token, ".")] + donor[strings.LastIndex(donor, "."):]
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Hour, "home-queen", nil)

	require.Error(t, err)
	assert.True(t, IsMisconfiguredError(err))
	assert.Equal(t, CauseSecretMissing, GetCause(err))
}

func TestNewTokenService_RejectsNonPositiveTTL(t *testing.T) {
	_, err := NewTokenService(testSecret, 0, "home-queen", nil)
	assert.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)
	userID := uuid.New()

	token, issued, err := svc.Issue(userID, models.RoleHusband)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(token, ".")+1)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), issued.ExpiresAt.Time, time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserUUID())
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, models.RoleHusband, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenService_IssueUsesFreshTokenIDs(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)
	userID := uuid.New()

	_, a, err := svc.Issue(userID, models.RoleWife)
	require.NoError(t, err)
	_, b, err := svc.Issue(userID, models.RoleWife)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenService_VerifyExpired(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)
	token, _, err := svc.Issue(uuid.New(), models.RoleWife)
	require.NoError(t, err)

	now = now.Add(7*24*time.Hour + time.Minute)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestTokenService_VerifyRejects(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, &now)
	valid, _, err := svc.Issue(uuid.New(), models.RoleWife)
	require.NoError(t, err)

	other, err := NewTokenService("fedcba9876543210fedcba9876543210", time.Hour, "home-queen", nil)
	require.NoError(t, err)
	foreign, _, err := other.Issue(uuid.New(), models.RoleWife)
	require.NoError(t, err)

	otherIssuer, err := NewTokenService(testSecret, time.Hour, "someone-else", nil)
	require.NoError(t, err)
	wrongIssuer, _, err := otherIssuer.Issue(uuid.New(), models.RoleWife)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	base := func(sub string, role models.UserRole) *TokenClaims {
		return &TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   sub,
				Issuer:    "home-queen",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Role: role,
		}
	}
	noExp := base(uuid.NewString(), models.RoleWife)
	noExp.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered payload", spliceSignature(foreign, valid)},
		{"signed with other secret", foreign},
		{"wrong issuer", wrongIssuer},
		{"hs512", sign(jwt.SigningMethodHS512, []byte(testSecret), base(uuid.NewString(), models.RoleWife))},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, base(uuid.NewString(), models.RoleWife))},
		{"subject not a uuid", sign(jwt.SigningMethodHS256, []byte(testSecret), base("user-1", models.RoleWife))},
		{"unknown role", sign(jwt.SigningMethodHS256, []byte(testSecret), base(uuid.NewString(), "QUEEN"))},
		{"missing exp", sign(jwt.SigningMethodHS256, []byte(testSecret), noExp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
			assert.True(t, IsUnauthorizedError(err))
		})
	}
}
