package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tome-treasures/order-service/internal/models"
)

// HTTPInventoryGateway implements InventoryGateway against the remote
// inventory service's HTTP API.
type HTTPInventoryGateway struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPInventoryGateway creates an inventory gateway for the service at
// baseURL (including the /inventory path prefix). Every call is bounded by
// the given timeout; a timed-out call reports ErrInventoryUnavailable.
func NewHTTPInventoryGateway(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPInventoryGateway {
	return &HTTPInventoryGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ InventoryGateway = (*HTTPInventoryGateway)(nil)

// BulkCheck handles GET /isItemInStockManyItems on the inventory service.
func (g *HTTPInventoryGateway) BulkCheck(ctx context.Context, itemCodes []string) ([]models.InventoryStatus, error) {
	query := url.Values{}
	for _, code := range itemCodes {
		query.Add("itemCodes", code)
	}
	reqURL := fmt.Sprintf("%s/isItemInStockManyItems?%s", g.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock check request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("inventory stock check unreachable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("inventory stock check rejected", "status", resp.StatusCode, "item_codes", itemCodes)
		return nil, fmt.Errorf("%w: status %d", ErrItemNotFound, resp.StatusCode)
	}

	var statuses []models.InventoryStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("failed to decode stock check response: %w", err)
	}
	return statuses, nil
}

// BulkDecrement handles POST /decreaseQuantityManyItems on the inventory
// service. Item codes and quantities are parallel slices matched by position.
func (g *HTTPInventoryGateway) BulkDecrement(ctx context.Context, itemCodes []string, quantities []int) error {
	if len(itemCodes) != len(quantities) {
		return fmt.Errorf("item codes and quantities length mismatch: %d vs %d", len(itemCodes), len(quantities))
	}

	query := url.Values{}
	for i, code := range itemCodes {
		query.Add("itemCodes", code)
		query.Add("quantities", strconv.Itoa(quantities[i]))
	}
	reqURL := fmt.Sprintf("%s/decreaseQuantityManyItems?%s", g.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create decrement request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("inventory decrement unreachable", "error", err)
		return fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Warn("inventory decrement rejected", "status", resp.StatusCode, "item_codes", itemCodes)
		return fmt.Errorf("%w: status %d", ErrDecrementRejected, resp.StatusCode)
	}
	return nil
}
