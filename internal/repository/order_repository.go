package repository

import (
	"context"
	"errors"

	"github.com/tome-treasures/order-service/internal/models"
)

var (
	// ErrOrderNotFound is returned when no order exists under the given number.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrderNumber is returned by Insert when the order number is
	// already taken. Callers resolve it by generating a fresh number; it is
	// never surfaced to clients.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// OrderRepository defines the interface for order persistence.
//
// Insert is atomic insert-if-absent keyed by order number: it either stores
// the order or fails with ErrDuplicateOrderNumber, never overwrites. The
// store is the single authority on order-number uniqueness; ExistsByNumber
// is a pre-check optimization only.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}
