// Billing HTTP handlers.
//
// This file exposes the commerce surface:
//   - GET  /billing/plans               (public plan catalog)
//   - POST /billing/orders              (session-authenticated checkout)
//   - POST /billing/webhook/{provider}  (signature-authenticated callback)
//
// The webhook route carries no session; the provider signature is the
// authentication. The raw body is read before any parsing because both
// providers sign the exact bytes on the wire.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linpap/safecaption/internal/billing"
)

// PlansResponse wraps the plan catalog.
type PlansResponse struct {
	Plans []billing.Plan `json:"plans"`
}

// CreateOrderResponse returns the provider-side checkout handle.
type CreateOrderResponse struct {
	OrderRef    string `json:"order_ref"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// ListPlans godoc
// @ID          listPlans
// @Summary     Plan catalog
// @Description Returns the purchasable tiers with their limits and prices.
// @Tags        Billing
// @Produce     json
//
// @Success     200  {object}  handlers.PlansResponse
// @Router      /billing/plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	ok(c, http.StatusOK, PlansResponse{Plans: billing.Catalog})
}

// CreateOrder godoc
// @ID          createOrder
// @Summary     Create a checkout order
// @Description Registers a checkout for a paid plan at the chosen payment provider.
// @Tags        Billing
// @Accept      json
// @Produce     json
// @Security    SessionAuth
//
// @Param       body  body  billing.OrderInput  true  "Plan, cycle, and provider"
//
// @Success     201  {object}  handlers.CreateOrderResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     502  {object}  handlers.ErrorResponse "Provider unavailable"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /billing/orders [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	var in billing.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	order, err := h.billSvc.CreateOrder(c.Request.Context(), userID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrUnknownPlan):
			fail(c, http.StatusBadRequest, ErrCodeUnknownPlan, "unknown or unpurchasable plan")
		case errors.Is(err, billing.ErrUnknownProvider):
			fail(c, http.StatusBadRequest, ErrCodeUnknownProvider, "unknown payment provider")
		case errors.Is(err, billing.ErrProviderUnavailable):
			fail(c, http.StatusBadGateway, ErrCodeProviderError, "payment provider unavailable")
		default:
			// validator.ValidationErrors and store failures land here; the
			// former is a client fault.
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, CreateOrderResponse{
		OrderRef:    order.Ref,
		CheckoutURL: order.CheckoutURL,
		AmountCents: order.AmountCents,
		Currency:    order.Currency,
	})
}

// Webhook godoc
// @ID          billingWebhook
// @Summary     Payment provider callback
// @Description Verifies the delivery signature and applies the payment outcome. Replays are acknowledged without effect.
// @Tags        Billing
// @Accept      json
// @Produce     json
//
// @Param       provider  path  string  true  "Provider code"  Enums(razorpay, paypal)
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse "Bad signature or unknown order"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown provider"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /billing/webhook/{provider} [post]
func (h *Handlers) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}

	err = h.billSvc.HandleWebhook(c.Request.Context(), c.Param("provider"), body, c.Request.Header)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrUnknownProvider):
			fail(c, http.StatusNotFound, ErrCodeUnknownProvider, "unknown payment provider")
		case errors.Is(err, billing.ErrBadSignature):
			fail(c, http.StatusBadRequest, ErrCodeInvalidSignature, "webhook signature verification failed")
		case errors.Is(err, billing.ErrOrderNotFound):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown payment order")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"status": "processed"})
}
