// Package revocation keeps the denylist of logged-out tokens.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// negativeTTL bounds how long a "not revoked" answer is trusted. A logout on
// another instance takes at most this long to be seen here.
const negativeTTL = 30 * time.Second

// Service records and checks revoked token ids
type Service struct {
	repo   repositories.RevocationRepository
	cache  *Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a revocation service with an answer cache of cacheSize
func NewService(repo repositories.RevocationRepository, cacheSize int, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  NewCache(cacheSize),
		logger: logger,
		now:    time.Now,
	}
}

// Revoke denylists a token until it would have expired
func (s *Service) Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	token := &models.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: s.now().UTC(),
	}
	if err := s.repo.Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.cache.Set(jti, true, expiresAt)
	return nil
}

// IsRevoked reports whether jti is on the denylist
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if revoked, ok := s.cache.Get(jti); ok {
		return revoked, nil
	}

	revoked, err := s.repo.IsRevoked(ctx, jti)
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	if !revoked {
		s.cache.Set(jti, false, s.now().Add(negativeTTL))
	}
	return revoked, nil
}

// PurgeExpired removes denylist entries whose tokens have expired anyway
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	s.cache.CleanupExpired()
	if n > 0 {
		s.logger.Info("purged expired revoked tokens", zap.Int64("rows_deleted", n))
	}
	return n, nil
}

// StartCleanupWorker purges expired entries every interval until ctx is done
func (s *Service) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.Error("failed to purge revoked tokens", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
