package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// InProcessPublisher delivers events synchronously to registered handlers.
// It is used when no broker is configured. Handler failures are logged and
// never reach the publisher's caller.
type InProcessPublisher struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *zap.Logger
}

// NewInProcessPublisher creates a publisher with the given handlers
func NewInProcessPublisher(logger *zap.Logger, handlers ...Handler) *InProcessPublisher {
	return &InProcessPublisher{handlers: handlers, logger: logger}
}

// Subscribe adds a handler
func (p *InProcessPublisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Publish encodes the event the same way the broker path does and hands it
// to every handler.
func (p *InProcessPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", routingKey, err)
	}

	p.mu.RLock()
	handlers := append([]Handler(nil), p.handlers...)
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, routingKey, body); err != nil {
			p.logger.Error("event handler failed",
				zap.String("routing_key", routingKey),
				zap.Error(err))
		}
	}
	return nil
}
