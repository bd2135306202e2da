package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tome-treasures/order-service/internal/models"
)

// HTTPNotificationGateway implements NotificationGateway against the remote
// email service's HTTP API.
type HTTPNotificationGateway struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPNotificationGateway creates a notification gateway for the email
// service at baseURL. Every call is bounded by the given timeout; a
// timed-out call reports ErrNotificationUnavailable.
func NewHTTPNotificationGateway(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPNotificationGateway {
	return &HTTPNotificationGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ NotificationGateway = (*HTTPNotificationGateway)(nil)

// Send handles POST /email/order on the email service. The call blocks
// until the service acknowledges or fails; there is no response payload.
func (g *HTTPNotificationGateway) Send(ctx context.Context, confirmation *models.OrderConfirmation) error {
	body, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal order confirmation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/email/order", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("notification service unreachable", "error", err, "order_number", confirmation.OrderNumber)
		return fmt.Errorf("%w: %v", ErrNotificationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Warn("notification rejected", "status", resp.StatusCode, "order_number", confirmation.OrderNumber)
		return fmt.Errorf("%w: status %d", ErrNotificationRejected, resp.StatusCode)
	}
	return nil
}
