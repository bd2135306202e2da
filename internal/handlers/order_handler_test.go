package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/tome-treasures/order-service/internal/gateway"
	"github.com/tome-treasures/order-service/internal/models"
	"github.com/tome-treasures/order-service/internal/repository"
	"github.com/tome-treasures/order-service/internal/service"
	"github.com/tome-treasures/order-service/pkg/logger"
)

type fakeInventory struct {
	statuses     []models.InventoryStatus
	checkErr     error
	decrementErr error
}

func (f *fakeInventory) BulkCheck(ctx context.Context, itemCodes []string) ([]models.InventoryStatus, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	if f.statuses != nil {
		return f.statuses, nil
	}
	statuses := make([]models.InventoryStatus, 0, len(itemCodes))
	for _, code := range itemCodes {
		statuses = append(statuses, models.InventoryStatus{ItemCode: code, InStock: true, AvailableQuantity: 5})
	}
	return statuses, nil
}

func (f *fakeInventory) BulkDecrement(ctx context.Context, itemCodes []string, quantities []int) error {
	return f.decrementErr
}

type fakeNotifier struct {
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, confirmation *models.OrderConfirmation) error {
	return f.sendErr
}

func validRequestBody() models.OrderRequest {
	return models.OrderRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Address:   "1 Library Lane",
		City:      "Booktown",
		Postcode:  "BK1 2RD",
		Phone:     "07000000000",
		Lines: []models.OrderLineRequest{
			{ItemCode: "BOOK-A", ProductName: "The Hobbit", UnitPrice: 12.99, Quantity: 2},
		},
	}
}

func newTestHandler(inv *fakeInventory, notif *fakeNotifier) (*OrderHandler, *repository.InMemoryOrderRepository) {
	repo := repository.NewInMemoryOrderRepository()
	log := logger.New("error")
	svc := service.NewOrderService(repo, inv, notif, log)
	return NewOrderHandler(svc, log), repo
}

func TestOrderHandler_PlaceOrder(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		inventory      *fakeInventory
		notifier       *fakeNotifier
		expectedStatus int
		checkResponse  func(*testing.T, *models.Order)
	}{
		{
			name:           "successful order",
			requestBody:    validRequestBody(),
			inventory:      &fakeInventory{},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, order *models.Order) {
				if len(order.OrderNumber) != 9 {
					t.Errorf("order number = %q, want 9 characters", order.OrderNumber)
				}
				if len(order.Lines) != 1 {
					t.Errorf("expected 1 line, got %d", len(order.Lines))
				}
			},
		},
		{
			name: "validation failure",
			requestBody: func() models.OrderRequest {
				req := validRequestBody()
				req.Lines[0].Quantity = 0
				return req
			}(),
			inventory:      &fakeInventory{},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "empty order",
			requestBody: func() models.OrderRequest {
				req := validRequestBody()
				req.Lines = nil
				return req
			}(),
			inventory:      &fakeInventory{},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "out of stock",
			requestBody: validRequestBody(),
			inventory: &fakeInventory{statuses: []models.InventoryStatus{
				{ItemCode: "BOOK-A", InStock: false, AvailableQuantity: 0},
			}},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "inventory unavailable",
			requestBody:    validRequestBody(),
			inventory:      &fakeInventory{checkErr: gateway.ErrInventoryUnavailable},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unknown item",
			requestBody:    validRequestBody(),
			inventory:      &fakeInventory{checkErr: gateway.ErrItemNotFound},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "notification failure after persistence",
			requestBody:    validRequestBody(),
			inventory:      &fakeInventory{},
			notifier:       &fakeNotifier{sendErr: gateway.ErrNotificationUnavailable},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			inventory:      &fakeInventory{},
			notifier:       &fakeNotifier{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler(tt.inventory, tt.notifier)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("failed to marshal request: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.PlaceOrder(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}

			if tt.checkResponse != nil {
				var order models.Order
				if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				tt.checkResponse(t, &order)
			}
		})
	}
}

// A post-persistence failure response must still identify the stored order.
func TestOrderHandler_PlaceOrder_PersistedOrderNumberInErrorResponse(t *testing.T) {
	handler, repo := newTestHandler(&fakeInventory{}, &fakeNotifier{sendErr: gateway.ErrNotificationRejected})

	body, _ := json.Marshal(validRequestBody())
	req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.PlaceOrder(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	var resp struct {
		Error       string `json:"error"`
		OrderNumber string `json:"orderNumber"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OrderNumber == "" {
		t.Fatal("error response missing order number for persisted order")
	}

	if _, err := repo.GetByNumber(context.Background(), resp.OrderNumber); err != nil {
		t.Errorf("order %s not found despite error response naming it: %v", resp.OrderNumber, err)
	}
}

func TestOrderHandler_ListByEmail(t *testing.T) {
	handler, repo := newTestHandler(&fakeInventory{}, &fakeNotifier{})

	orders := []models.Order{
		{OrderNumber: "AAAA00001", Email: "jane@example.com", Lines: []models.OrderLine{{ItemCode: "BOOK-A", Quantity: 1}}},
		{OrderNumber: "AAAA00002", Email: "bob@example.com", Lines: []models.OrderLine{{ItemCode: "BOOK-B", Quantity: 2}}},
	}
	for i := range orders {
		if err := repo.Insert(context.Background(), &orders[i]); err != nil {
			t.Fatalf("Insert() unexpected error = %v", err)
		}
	}

	r := chi.NewRouter()
	r.Get("/api/order/{userEmail}", handler.ListByEmail)

	req := httptest.NewRequest(http.MethodGet, "/api/order/jane@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d orders, want 1", len(got))
	}
	if got[0].OrderNumber != "AAAA00001" {
		t.Errorf("order number = %q, want %q", got[0].OrderNumber, "AAAA00001")
	}
}

func TestOrderHandler_ListAll(t *testing.T) {
	handler, repo := newTestHandler(&fakeInventory{}, &fakeNotifier{})

	for _, number := range []string{"AAAA00001", "AAAA00002", "AAAA00003"} {
		order := models.Order{OrderNumber: number, Email: "jane@example.com"}
		if err := repo.Insert(context.Background(), &order); err != nil {
			t.Fatalf("Insert() unexpected error = %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/order/all", nil)
	w := httptest.NewRecorder()
	handler.ListAll(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d orders, want 3", len(got))
	}
}
