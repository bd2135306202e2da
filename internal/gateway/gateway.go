package gateway

import (
	"context"
	"errors"

	"github.com/tome-treasures/order-service/internal/models"
)

var (
	// ErrInventoryUnavailable means the inventory service could not be
	// reached at all (connection failure or timeout). Transient.
	ErrInventoryUnavailable = errors.New("inventory service is unavailable")

	// ErrItemNotFound means the inventory service rejected one or more item
	// codes as unknown during a stock check. A data error, not transient.
	ErrItemNotFound = errors.New("item not found in inventory")

	// ErrDecrementRejected means the inventory service refused a decrement:
	// insufficient stock, unknown item, or zero-quantity item.
	ErrDecrementRejected = errors.New("inventory decrement rejected")

	// ErrNotificationUnavailable means the notification service could not be
	// reached (connection failure or timeout).
	ErrNotificationUnavailable = errors.New("notification service is unavailable")

	// ErrNotificationRejected means the notification service returned an
	// application-level error for the confirmation payload.
	ErrNotificationRejected = errors.New("notification rejected by service")
)

// InventoryGateway is the order orchestrator's view of the remote
// inventory service.
type InventoryGateway interface {
	// BulkCheck returns one status per requested item code. Response order
	// is not guaranteed to match request order.
	BulkCheck(ctx context.Context, itemCodes []string) ([]models.InventoryStatus, error)

	// BulkDecrement reduces stock for the given parallel item-code and
	// quantity slices, matched by position.
	BulkDecrement(ctx context.Context, itemCodes []string, quantities []int) error
}

// NotificationGateway delivers order confirmations. Send blocks until the
// delivery is acknowledged or fails.
type NotificationGateway interface {
	Send(ctx context.Context, confirmation *models.OrderConfirmation) error
}
