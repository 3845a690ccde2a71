// Package ratelimit throttles failed login attempts with a sliding window
// over the login_attempts table.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// Window represents the time window for rate limiting
type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
)

// LoginAttempt identifies the caller of a login request
type LoginAttempt struct {
	IP         string
	Identifier string
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed         bool
	Remaining       int
	ResetAt         time.Time
	ViolatedWindow  Window
	ViolatedScope   string
	ViolationReason string
}

// Service throttles logins using failed-attempt counts per scope
type Service struct {
	attempts repositories.LoginAttemptRepository
	cfg      config.RateLimitConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new Service instance
func NewService(attempts repositories.LoginAttemptRepository, cfg config.RateLimitConfig, logger *zap.Logger) *Service {
	return &Service{
		attempts: attempts,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckLimit reports whether another login attempt is allowed for every
// scope of the caller
func (s *Service) CheckLimit(ctx context.Context, attempt LoginAttempt) (*Result, error) {
	if !s.cfg.Enabled {
		return &Result{Allowed: true}, nil
	}

	now := s.now()
	limits := []struct {
		window Window
		limit  int
	}{
		{WindowMinute, s.cfg.LoginAttemptsPerMinute},
		{WindowHour, s.cfg.LoginAttemptsPerHour},
	}

	for _, scope := range s.scopeKeys(attempt) {
		for _, l := range limits {
			if l.limit <= 0 {
				continue
			}
			allowed, remaining, resetAt, err := s.checkWindow(ctx, scope, l.window, now, l.limit)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s window: %w", l.window, err)
			}
			if !allowed {
				return &Result{
					Allowed:         false,
					Remaining:       remaining,
					ResetAt:         resetAt,
					ViolatedWindow:  l.window,
					ViolatedScope:   scope,
					ViolationReason: fmt.Sprintf("exceeded %d failed logins per %s", l.limit, l.window),
				}, nil
			}
		}
	}

	return &Result{Allowed: true}, nil
}

// RecordFailure records a failed attempt against every scope of the caller
func (s *Service) RecordFailure(ctx context.Context, attempt LoginAttempt) error {
	if !s.cfg.Enabled {
		return nil
	}

	now := s.now()
	for _, scope := range s.scopeKeys(attempt) {
		if err := s.attempts.Record(ctx, scope, now); err != nil {
			return fmt.Errorf("failed to record login attempt: %w", err)
		}
	}
	return nil
}

// checkWindow checks if the limit is exceeded for a specific time window
func (s *Service) checkWindow(ctx context.Context, scopeKey string, window Window, now time.Time, limit int) (allowed bool, remaining int, resetAt time.Time, err error) {
	windowStart, resetAt := getWindowBounds(now, window)

	count, err := s.attempts.Count(ctx, scopeKey, windowStart, now)
	if err != nil {
		return false, 0, resetAt, err
	}

	if count >= limit {
		return false, 0, resetAt, nil
	}
	return true, limit - count, resetAt, nil
}

// getWindowBounds returns the start and reset time for a time window
func getWindowBounds(now time.Time, window Window) (start time.Time, reset time.Time) {
	switch window {
	case WindowMinute:
		start = now.Add(-1 * time.Minute)
		reset = now.Truncate(time.Minute).Add(time.Minute)
	case WindowHour:
		start = now.Add(-1 * time.Hour)
		reset = now.Truncate(time.Hour).Add(time.Hour)
	}
	return start, reset
}

// scopeKeys returns the keys an attempt is counted under. Identifiers are
// case-folded so "A@x.com" and "a@x.com" share a budget.
func (s *Service) scopeKeys(attempt LoginAttempt) []string {
	var keys []string
	if attempt.IP != "" {
		keys = append(keys, "login:ip:"+attempt.IP)
	}
	if id := strings.ToLower(strings.TrimSpace(attempt.Identifier)); id != "" {
		keys = append(keys, "login:id:"+id)
	}
	return keys
}

// CleanupOldAttempts removes attempts older than the retention period
func (s *Service) CleanupOldAttempts(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoffTime := s.now().Add(-olderThan)

	rowsAffected, err := s.attempts.DeleteBefore(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old attempts: %w", err)
	}

	s.logger.Info("cleaned up old login attempts",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("cutoff_time", cutoffTime))

	return rowsAffected, nil
}

// StartCleanupWorker periodically removes old attempts until ctx is done
func (s *Service) StartCleanupWorker(ctx context.Context, interval time.Duration, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("started login attempt cleanup worker",
		zap.Duration("interval", interval),
		zap.Duration("retention", retention))

	for {
		select {
		case <-ticker.C:
			if _, err := s.CleanupOldAttempts(ctx, retention); err != nil {
				s.logger.Error("failed to cleanup old attempts", zap.Error(err))
			}
		case <-ctx.Done():
			s.logger.Info("stopping login attempt cleanup worker")
			return
		}
	}
}
