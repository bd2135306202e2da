package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tome-treasures/order-service/internal/models"
	"github.com/tome-treasures/order-service/internal/rabbitmq"
)

// AMQPNotificationGateway implements NotificationGateway by publishing the
// order confirmation to a RabbitMQ exchange with publisher confirms. A
// broker ack counts as delivery; a nack is an application-level rejection.
type AMQPNotificationGateway struct {
	client     *rabbitmq.Client
	exchange   string
	routingKey string
	timeout    time.Duration
	log        *slog.Logger
}

// NewAMQPNotificationGateway creates a notification gateway publishing to
// the given exchange and routing key.
func NewAMQPNotificationGateway(client *rabbitmq.Client, exchange, routingKey string, timeout time.Duration, log *slog.Logger) *AMQPNotificationGateway {
	return &AMQPNotificationGateway{
		client:     client,
		exchange:   exchange,
		routingKey: routingKey,
		timeout:    timeout,
		log:        log,
	}
}

var _ NotificationGateway = (*AMQPNotificationGateway)(nil)

// Send publishes the confirmation and blocks until the broker confirms it.
func (g *AMQPNotificationGateway) Send(ctx context.Context, confirmation *models.OrderConfirmation) error {
	if err := g.client.Ping(); err != nil {
		g.log.Error("rabbitmq connection down", "error", err, "order_number", confirmation.OrderNumber)
		return fmt.Errorf("%w: %v", ErrNotificationUnavailable, err)
	}

	body, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal order confirmation: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// The message ID makes redeliveries detectable downstream; the
	// correlation ID lets consumers track the confirmation by order number.
	err = g.client.Publish(pctx, g.exchange, g.routingKey, uuid.New().String(), confirmation.OrderNumber, body)
	if errors.Is(err, rabbitmq.ErrPublishNacked) {
		g.log.Warn("notification publish nacked", "order_number", confirmation.OrderNumber)
		return fmt.Errorf("%w: %v", ErrNotificationRejected, err)
	}
	if err != nil {
		g.log.Error("notification publish failed", "error", err, "order_number", confirmation.OrderNumber)
		return fmt.Errorf("%w: %v", ErrNotificationUnavailable, err)
	}
	return nil
}
