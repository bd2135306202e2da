package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOrder is returned when a request carries no line items.
var ErrEmptyOrder = errors.New("order must contain at least one line")

// ViolationKind identifies a business-rule violation on an order line.
type ViolationKind string

const (
	InvalidQuantity ViolationKind = "InvalidQuantity"
	InvalidItemCode ViolationKind = "InvalidItemCode"
)

// Violation describes one line-level rule violation, naming the offending
// product so the client can fix all problems in one round trip.
type Violation struct {
	Kind        ViolationKind `json:"kind"`
	ProductName string        `json:"productName"`
	Message     string        `json:"message"`
}

// ValidationError carries the full list of line-level violations found in
// a request, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid order request: " + strings.Join(msgs, "; ")
}

// OutOfStockError carries the item codes whose reported available quantity
// was zero or negative.
type OutOfStockError struct {
	ItemCodes []string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("items out of stock: %s", strings.Join(e.ItemCodes, ", "))
}
