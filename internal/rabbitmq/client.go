package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublishNacked is returned when the broker explicitly refuses a
// published message.
var ErrPublishNacked = errors.New("publish NACK from broker")

// Client wraps an AMQP connection and channel with publisher confirms
// enabled. Publish waits for the broker's ack, so a nil return means the
// broker has taken responsibility for the message.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // confirms arrive in publish order, so publishes are serialized
}

// Dial connects to the broker at the given AMQP URL and enables publisher
// confirms on the channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

// ExchangeDeclare declares a durable exchange of the given kind.
func (c *Client) ExchangeDeclare(name, kind string) error {
	return c.ch.ExchangeDeclare(name, kind, true, false, false, false, nil)
}

// Ping reports whether the underlying connection is still open.
func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish publishes a persistent message and waits for the broker's
// ack/nack or context cancellation.
func (c *Client) Publish(ctx context.Context, exchange, key, messageID, correlationID string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
	if err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return ErrPublishNacked
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the channel and connection.
func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
