// Package notify fans committed user messages out over AMQP.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string

	// A channel must not be used for publishing from several goroutines.
	mu sync.Mutex
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}
	if err := c.setup(); err != nil {
		c.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return c, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// Direct exchange: the routing key is the queue name.
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish sends one persistent message per user message, stopping at the
// first failure.
func (c *Client) Publish(ctx context.Context, account string, msgs []models.UserMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, m := range msgs {
		env := NewEnvelope(account, m)
		body, err := env.ToJSON()
		if err != nil {
			return fmt.Errorf("marshal envelope: %w", err)
		}

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err = c.channel.PublishWithContext(pubCtx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    env.ID,
			Timestamp:    env.PublishedAt,
			Body:         body,
		})
		cancel()
		if err != nil {
			return errs.NewExternalServiceError("amqp", "publish user message", true, err)
		}

		logger.FromContext(ctx).Debug("published user message",
			"envelope_id", env.ID,
			"message_id", m.ID,
			"exchange", c.exchangeName,
			"queue", c.queueName)
	}
	return nil
}

// Consume delivers envelopes to handler until ctx ends. Undecodable bodies
// are dropped; handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, *Envelope) error) error {
	deliveries, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info("consuming user messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			settle(ctx, d, d.Body, handler)
		}
	}
}

// acknowledger is the part of amqp091.Delivery that settle needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(ctx context.Context, ack acknowledger, body []byte, handler func(context.Context, *Envelope) error) {
	log := logger.FromContext(ctx)

	env, err := EnvelopeFromJSON(body)
	if err != nil {
		log.Error("failed to decode envelope", "error", err)
		ack.Nack(false, false)
		return
	}

	_, msgCtx := logger.With(ctx, "envelope_id", env.ID, "account", env.AccountID)
	if err := handler(msgCtx, env); err != nil {
		log.Error("failed to handle envelope", "error", err, "envelope_id", env.ID)
		ack.Nack(false, true)
		return
	}
	ack.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publisher is satisfied by Client and NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, account string, msgs []models.UserMessage) error
}

// NopPublisher drops messages; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []models.UserMessage) error { return nil }
