package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitPublisher publishes JSON events to a topic exchange
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher dials url and declares the exchange
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, ch, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", routingKey, err)
	}
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() error {
	return closeAll(p.conn, p.ch)
}

// ConsumerConfig configures the notification queue
type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Bindings []string
	Prefetch int
	Tag      string
}

// RabbitConsumer feeds queue deliveries to a handler
type RabbitConsumer struct {
	cfg     ConsumerConfig
	handler Handler
	logger  *zap.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitConsumer creates a consumer. Call Connect before Run.
func NewRabbitConsumer(cfg ConsumerConfig, handler Handler, logger *zap.Logger) *RabbitConsumer {
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = Bindings
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 8
	}
	return &RabbitConsumer{cfg: cfg, handler: handler, logger: logger}
}

// Connect declares the exchange and queue and binds the routing patterns
func (c *RabbitConsumer) Connect() error {
	conn, ch, err := dial(c.cfg.URL, c.cfg.Exchange)
	if err != nil {
		return err
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = closeAll(conn, ch)
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			_ = closeAll(conn, ch)
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = closeAll(conn, ch)
		return fmt.Errorf("set qos: %w", err)
	}

	c.conn, c.ch = conn, ch
	return nil
}

// Run consumes until ctx is done or the channel closes
func (c *RabbitConsumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.logger.Info("notification consumer started",
		zap.String("queue", c.cfg.Queue),
		zap.Strings("bindings", c.cfg.Bindings))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.dispatch(ctx, d)
		}
	}
}

// dispatch acks handled deliveries. A failed delivery is requeued once and
// dropped on its second failure.
func (c *RabbitConsumer) dispatch(ctx context.Context, d amqp.Delivery) {
	if err := c.handler.Handle(ctx, d.RoutingKey, d.Body); err != nil {
		c.logger.Warn("event handling failed",
			zap.String("routing_key", d.RoutingKey),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err))
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *RabbitConsumer) Close() error {
	return closeAll(c.conn, c.ch)
}

func dial(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = closeAll(conn, ch)
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

func closeAll(conn *amqp.Connection, ch *amqp.Channel) error {
	if ch != nil {
		_ = ch.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
