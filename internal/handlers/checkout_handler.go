package handlers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/price"
	"github.com/tome-treasures/order-service/internal/config"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// CheckoutHandler is a stateless pass-through to Stripe hosted checkout.
// It holds no order state; the payment flow is orthogonal to order
// placement.
type CheckoutHandler struct {
	successURL string
	cancelURL  string
	log        *slog.Logger
}

// NewCheckoutHandler creates a checkout handler and configures the Stripe
// client key.
func NewCheckoutHandler(cfg config.StripeConfig, log *slog.Logger) *CheckoutHandler {
	stripe.Key = cfg.APIKey
	return &CheckoutHandler{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		log:        log,
	}
}

// CreateCheckoutSession handles POST /api/order/create-checkout-session.
// It creates a one-off Stripe price from the submitted price string and
// redirects the client to the hosted checkout page.
func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("price")
	cleaned := nonPriceChars.ReplaceAllString(raw, "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		h.log.Warn("invalid checkout price", "price", raw)
		WriteError(w, http.StatusBadRequest, "Invalid price", h.log)
		return
	}

	// Stripe amounts are in the currency's smallest unit.
	cents := int64(amount) * 100

	priceObj, err := price.New(&stripe.PriceParams{
		UnitAmount: stripe.Int64(cents),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String("Tome Treasures"),
		},
	})
	if err != nil {
		h.log.Error("failed to create stripe price", "error", err)
		WriteError(w, http.StatusBadGateway, "Payment provider error", h.log)
		return
	}

	sess, err := session.New(&stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(h.successURL),
		CancelURL:  stripe.String(h.cancelURL),
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		},
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceObj.ID),
				Quantity: stripe.Int64(1),
			},
		},
	})
	if err != nil {
		h.log.Error("failed to create checkout session", "error", err)
		WriteError(w, http.StatusBadGateway, "Payment provider error", h.log)
		return
	}

	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}
