package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tome-treasures/order-service/internal/gateway"
	"github.com/tome-treasures/order-service/internal/models"
	"github.com/tome-treasures/order-service/internal/ordernum"
	"github.com/tome-treasures/order-service/internal/repository"
)

// OrderService orchestrates order placement: validation, order-number
// assignment, bulk stock verification, persistence, confirmation delivery
// and inventory decrement, in that order.
//
// Persistence is the commit point. A failure before it leaves no side
// effects; a failure after it (notification, decrement) is surfaced as an
// error but the stored order is not retracted, so an error response does
// not imply that no order was placed.
type OrderService struct {
	repo      repository.OrderRepository
	inventory gateway.InventoryGateway
	notifier  gateway.NotificationGateway
	validator *OrderValidator
	log       *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, inventory gateway.InventoryGateway,
	notifier gateway.NotificationGateway, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		inventory: inventory,
		notifier:  notifier,
		validator: NewOrderValidator(),
		log:       log,
	}
}

// PlaceOrder turns a request into a persisted, notified, stock-adjusted
// order. On post-persistence failures the persisted order is returned
// together with the error.
func (s *OrderService) PlaceOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	// Validation runs before any network or storage call, and reports every
	// violation at once.
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	number, err := s.assignOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.inventory.BulkCheck(ctx, distinctItemCodes(req.Lines))
	if err != nil {
		return nil, err
	}

	// The in-stock flag is the authoritative gate; the diagnostic lists
	// items by reported quantity, so a flagged-in-stock item with a
	// non-positive quantity still shows up in the rejection.
	allInStock := true
	for _, status := range statuses {
		if !status.InStock {
			allInStock = false
			break
		}
	}
	if !allInStock {
		outOfStock := make([]string, 0)
		for _, status := range statuses {
			if status.AvailableQuantity <= 0 {
				outOfStock = append(outOfStock, status.ItemCode)
			}
		}
		s.log.Info("order rejected, items out of stock", "item_codes", outOfStock)
		return nil, &OutOfStockError{ItemCodes: outOfStock}
	}

	order := buildOrder(req, number)

	// The pre-checked number can still lose a race with a concurrent
	// request; the store's insert-if-absent is the uniqueness authority,
	// and a conflict restarts number assignment instead of failing.
	for {
		err := s.repo.Insert(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderNumber) {
			s.log.Warn("order number taken at insert, regenerating", "order_number", order.OrderNumber)
			number, err = s.assignOrderNumber(ctx)
			if err != nil {
				return nil, err
			}
			order.OrderNumber = number
			continue
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info("order persisted", "order_number", order.OrderNumber, "lines", len(order.Lines))

	// From here on the order is durable. Downstream failures are reported
	// but nothing is rolled back.
	if err := s.notifier.Send(ctx, confirmationFor(order)); err != nil {
		return order, fmt.Errorf("order %s persisted but confirmation not delivered: %w", order.OrderNumber, err)
	}

	codes, quantities := lineDecrements(order.Lines)
	if err := s.inventory.BulkDecrement(ctx, codes, quantities); err != nil {
		return order, fmt.Errorf("order %s persisted but stock not decremented: %w", order.OrderNumber, err)
	}

	s.log.Info("order completed", "order_number", order.OrderNumber)
	return order, nil
}

// GetOrdersByEmail returns all orders placed with the given customer email.
func (s *OrderService) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.repo.ListByEmail(ctx, email)
}

// GetAllOrders returns every stored order.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListAll(ctx)
}

// assignOrderNumber generates candidates until one is unused. The store
// check here is an optimization; the insert itself re-checks atomically.
func (s *OrderService) assignOrderNumber(ctx context.Context) (string, error) {
	for {
		candidate := ordernum.Generate()
		exists, err := s.repo.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		s.log.Debug("order number collision, regenerating", "candidate", candidate)
	}
}

// distinctItemCodes returns the request's item codes with duplicates
// removed, in first-seen order.
func distinctItemCodes(lines []models.OrderLineRequest) []string {
	seen := make(map[string]bool, len(lines))
	codes := make([]string, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ItemCode] {
			seen[line.ItemCode] = true
			codes = append(codes, line.ItemCode)
		}
	}
	return codes
}

// lineDecrements returns parallel item-code and quantity slices, one pair
// per order line, for the bulk decrement call.
func lineDecrements(lines []models.OrderLine) ([]string, []int) {
	codes := make([]string, 0, len(lines))
	quantities := make([]int, 0, len(lines))
	for _, line := range lines {
		codes = append(codes, line.ItemCode)
		quantities = append(quantities, line.Quantity)
	}
	return codes, quantities
}

func buildOrder(req *models.OrderRequest, number string) *models.Order {
	lines := make([]models.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, models.OrderLine{
			ItemCode:    line.ItemCode,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}
	return &models.Order{
		OrderNumber: number,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		Postcode:    req.Postcode,
		Phone:       req.Phone,
		Lines:       lines,
	}
}

func confirmationFor(order *models.Order) *models.OrderConfirmation {
	return &models.OrderConfirmation{
		OrderNumber: order.OrderNumber,
		FirstName:   order.FirstName,
		LastName:    order.LastName,
		Email:       order.Email,
		Address:     order.Address,
		City:        order.City,
		Postcode:    order.Postcode,
		Phone:       order.Phone,
		Lines:       order.Lines,
	}
}
