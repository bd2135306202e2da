package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tome-treasures/order-service/internal/gateway"
	"github.com/tome-treasures/order-service/internal/models"
	"github.com/tome-treasures/order-service/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// PlaceOrder handles POST /api/order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), &req)
	if err != nil {
		h.writeOrderError(w, order, err)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
	h.log.Info("order placed", "order_number", order.OrderNumber, "lines", len(order.Lines))
}

// ListByEmail handles GET /api/order/{userEmail}
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "userEmail")
	if email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required", h.log)
		return
	}

	orders, err := h.orderService.GetOrdersByEmail(r.Context(), email)
	if err != nil {
		h.log.Error("failed to list orders by email", "email", email, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// ListAll handles GET /api/order/all (API-key protected)
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAllOrders(r.Context())
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// writeOrderError maps placement errors to HTTP responses. When the order
// comes back non-nil the persistence already happened; the response then
// carries the order number so the client knows the order exists.
func (h *OrderHandler) writeOrderError(w http.ResponseWriter, order *models.Order, err error) {
	h.log.Error("failed to place order", "error", err)

	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "Invalid order request",
			"violations": valErr.Violations,
		}, h.log)
		return
	}

	var oosErr *service.OutOfStockError
	if errors.As(err, &oosErr) {
		WriteJSON(w, http.StatusConflict, map[string]any{
			"error":           "Items out of stock",
			"outOfStockItems": oosErr.ItemCodes,
		}, h.log)
		return
	}

	if order != nil {
		// Persisted but a downstream step failed; nothing was rolled back.
		WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":       err.Error(),
			"orderNumber": order.OrderNumber,
		}, h.log)
		return
	}

	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		WriteError(w, http.StatusBadRequest, "Order must contain at least one line", h.log)
	case errors.Is(err, gateway.ErrItemNotFound):
		WriteError(w, http.StatusBadRequest, "Item not found in the inventory, make sure ItemCode is correct", h.log)
	case errors.Is(err, gateway.ErrInventoryUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "Inventory service is down", h.log)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
