package service

import (
	"errors"
	"testing"

	"github.com/tome-treasures/order-service/internal/models"
)

func TestOrderValidator_Validate(t *testing.T) {
	validator := NewOrderValidator()

	tests := []struct {
		name      string
		lines     []models.OrderLineRequest
		wantKinds []ViolationKind
		wantNames []string
	}{
		{
			name: "valid lines",
			lines: []models.OrderLineRequest{
				{ItemCode: "BOOK-A", ProductName: "The Hobbit", UnitPrice: 12.99, Quantity: 1},
				{ItemCode: "BOOK-B", ProductName: "Dune", UnitPrice: 9.99, Quantity: 4},
			},
		},
		{
			name: "zero quantity names the product",
			lines: []models.OrderLineRequest{
				{ItemCode: "BOOK-A", ProductName: "The Hobbit", UnitPrice: 12.99, Quantity: 0},
			},
			wantKinds: []ViolationKind{InvalidQuantity},
			wantNames: []string{"The Hobbit"},
		},
		{
			name: "blank item code names the product",
			lines: []models.OrderLineRequest{
				{ItemCode: " ", ProductName: "Dune", UnitPrice: 9.99, Quantity: 1},
			},
			wantKinds: []ViolationKind{InvalidItemCode},
			wantNames: []string{"Dune"},
		},
		{
			name: "one line with both problems yields both violations",
			lines: []models.OrderLineRequest{
				{ItemCode: "", ProductName: "Dune", UnitPrice: 9.99, Quantity: -1},
			},
			wantKinds: []ViolationKind{InvalidQuantity, InvalidItemCode},
			wantNames: []string{"Dune", "Dune"},
		},
		{
			name: "violations across multiple lines are all collected",
			lines: []models.OrderLineRequest{
				{ItemCode: "BOOK-A", ProductName: "The Hobbit", UnitPrice: 12.99, Quantity: 0},
				{ItemCode: "BOOK-B", ProductName: "Dune", UnitPrice: 9.99, Quantity: 2},
				{ItemCode: "", ProductName: "Emma", UnitPrice: 7.50, Quantity: 1},
			},
			wantKinds: []ViolationKind{InvalidQuantity, InvalidItemCode},
			wantNames: []string{"The Hobbit", "Emma"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(&models.OrderRequest{Lines: tt.lines})

			if len(tt.wantKinds) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(valErr.Violations) != len(tt.wantKinds) {
				t.Fatalf("got %d violations, want %d: %v", len(valErr.Violations), len(tt.wantKinds), valErr.Violations)
			}
			for i := range tt.wantKinds {
				if valErr.Violations[i].Kind != tt.wantKinds[i] {
					t.Errorf("violation[%d].Kind = %q, want %q", i, valErr.Violations[i].Kind, tt.wantKinds[i])
				}
				if valErr.Violations[i].ProductName != tt.wantNames[i] {
					t.Errorf("violation[%d].ProductName = %q, want %q", i, valErr.Violations[i].ProductName, tt.wantNames[i])
				}
			}
		})
	}
}

func TestOrderValidator_EmptyOrder(t *testing.T) {
	validator := NewOrderValidator()

	err := validator.Validate(&models.OrderRequest{})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("Validate() error = %v, want ErrEmptyOrder", err)
	}
}
