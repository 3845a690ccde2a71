// Package audit writes authentication events to the audit log from a pool
// of background workers.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when events are logged before Start or after Stop
	ErrNotStarted = errors.New("audit service not started")

	// ErrBufferFull is returned by LogEvent when the queue is saturated
	ErrBufferFull = errors.New("audit event buffer full")
)

// Event is an audit entry waiting to be written
type Event struct {
	Log *models.AuditLog
}

// RequestMeta is the request context recorded with an event
type RequestMeta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// Service handles asynchronous audit logging
type Service struct {
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
	eventChan   chan *Event
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	stopped     bool
	mu          sync.RWMutex
}

// Config holds configuration for the Service
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 2,
	}
}

// NewService creates a new Service instance
func NewService(auditRepo repositories.AuditRepository, logger *zap.Logger, config Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		auditRepo:   auditRepo,
		logger:      logger,
		eventChan:   make(chan *Event, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting events and waits up to timeout for the queue to drain
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.stopped = true
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", len(s.eventChan)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		s.cancel()
		return nil
	case <-time.After(timeout):
		s.cancel()
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// LogEvent queues an event without blocking. The event is dropped when the
// buffer is full.
func (s *Service) LogEvent(event *Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.stopped {
		return ErrNotStarted
	}

	select {
	case s.eventChan <- event:
		return nil
	default:
		s.logger.Warn("audit event channel full, dropping event",
			zap.String("action", string(event.Log.Action)),
			zap.String("identifier", event.Log.Identifier))
		return ErrBufferFull
	}
}

// LogEventBlocking queues an event, waiting for buffer space until ctx is done
func (s *Service) LogEventBlocking(ctx context.Context, event *Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.stopped {
		return ErrNotStarted
	}

	select {
	case s.eventChan <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return fmt.Errorf("audit service stopped")
	}
}

// worker processes events from the channel
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for event := range s.eventChan {
		if err := s.processEvent(event); err != nil {
			s.logger.Error("failed to process audit event",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("action", string(event.Log.Action)))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

// processEvent processes a single audit event
func (s *Service) processEvent(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.auditRepo.Insert(ctx, event.Log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// ListRecent returns the newest audit entries
func (s *Service) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.auditRepo.ListRecent(ctx, limit)
}

// GetStats returns statistics about the audit service
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
}

// Convenience methods for the auth events

func (s *Service) log(action models.AuditAction, identifier string, userID *uuid.UUID, meta RequestMeta, details interface{}) error {
	entry := models.NewAuditLog(action, identifier).
		WithRequest(meta.RequestID, meta.IPAddress, meta.UserAgent)
	if userID != nil {
		entry.WithUser(*userID)
	}
	if details != nil {
		entry.WithDetails(details)
	}
	return s.LogEvent(&Event{Log: entry})
}

// LogRegistered records a new account
func (s *Service) LogRegistered(user *models.User, identifier string, meta RequestMeta) error {
	return s.log(models.AuditActionUserRegistered, identifier, &user.ID, meta, map[string]interface{}{
		"role": user.Role,
	})
}

// LogLoginSucceeded records a successful login
func (s *Service) LogLoginSucceeded(userID uuid.UUID, identifier string, meta RequestMeta) error {
	return s.log(models.AuditActionLoginSucceeded, identifier, &userID, meta, nil)
}

// LogLoginFailed records a rejected login. reason is for operators only and
// never reaches the client.
func (s *Service) LogLoginFailed(identifier, reason string, meta RequestMeta) error {
	return s.log(models.AuditActionLoginFailed, identifier, nil, meta, map[string]interface{}{
		"reason": reason,
	})
}

// LogLogout records a token revocation
func (s *Service) LogLogout(userID uuid.UUID, tokenID string, meta RequestMeta) error {
	return s.log(models.AuditActionLogout, "", &userID, meta, map[string]interface{}{
		"jti": tokenID,
	})
}
