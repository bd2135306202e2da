package repository

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/tome-treasures/order-service/internal/models"
)

// Sized for far more orders than the in-memory backend is expected to hold;
// at this capacity the false-positive rate stays around 1%.
const (
	bloomCapacity      = 1_000_000
	bloomFalsePositive = 0.01
)

// InMemoryOrderRepository implements OrderRepository with in-memory storage.
// A bloom filter answers most ExistsByNumber calls without touching the map;
// the map remains the authority, so a filter false positive only costs a
// map lookup, never a wrong answer.
type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.Order
	filter *bloom.BloomFilter
}

// NewInMemoryOrderRepository creates an empty in-memory order repository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFalsePositive),
	}
}

var _ OrderRepository = (*InMemoryOrderRepository)(nil)

// Insert stores the order if its number is unused, holding the write lock
// across the existence check and the write so the insert-if-absent is atomic.
func (r *InMemoryOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderNumber]; exists {
		return ErrDuplicateOrderNumber
	}

	r.orders[order.OrderNumber] = *order
	r.filter.AddString(order.OrderNumber)
	return nil
}

// ExistsByNumber reports whether an order exists under the given number.
func (r *InMemoryOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Definite negative: the filter has never seen this number.
	if !r.filter.TestString(number) {
		return false, nil
	}

	_, exists := r.orders[number]
	return exists, nil
}

// GetByNumber returns the order stored under the given number.
func (r *InMemoryOrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[number]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// ListByEmail returns all orders placed with the given customer email.
func (r *InMemoryOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.Email == email {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// ListAll returns every stored order.
func (r *InMemoryOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	return orders, nil
}
