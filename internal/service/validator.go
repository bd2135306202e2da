package service

import (
	"fmt"
	"strings"

	"github.com/tome-treasures/order-service/internal/models"
)

// OrderValidator enforces business-level invariants on order requests
// beyond the field presence and format checks done upstream. It runs
// strictly before any network or storage call.
type OrderValidator struct{}

// NewOrderValidator creates an order validator.
func NewOrderValidator() *OrderValidator {
	return &OrderValidator{}
}

// Validate checks every line of the request and collects all violations.
// It returns nil, ErrEmptyOrder, or a *ValidationError listing every
// offending line.
func (v *OrderValidator) Validate(req *models.OrderRequest) error {
	if len(req.Lines) == 0 {
		return ErrEmptyOrder
	}

	var violations []Violation
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			violations = append(violations, Violation{
				Kind:        InvalidQuantity,
				ProductName: line.ProductName,
				Message:     fmt.Sprintf("quantity of item %q must be greater than 0", line.ProductName),
			})
		}
		if strings.TrimSpace(line.ItemCode) == "" {
			violations = append(violations, Violation{
				Kind:        InvalidItemCode,
				ProductName: line.ProductName,
				Message:     fmt.Sprintf("item code of %q must not be blank", line.ProductName),
			})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
