package billing

import (
	"context"
	"errors"
	"net/http"
)

// Provider errors shared by both integrations.
var (
	// ErrBadSignature indicates a webhook whose signature does not verify.
	ErrBadSignature = errors.New("webhook signature verification failed")

	// ErrProviderUnavailable indicates the provider API could not be reached
	// or returned a non-success status during order creation.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

// Order is the provider-side result of creating a checkout: the opaque
// reference the webhook later keys on, plus whatever the dashboard needs to
// hand off to the provider's checkout flow.
type Order struct {
	// Ref is the provider-issued order identifier.
	Ref string
	// CheckoutURL is where the buyer completes payment; empty for providers
	// whose client SDK drives checkout from the order reference alone.
	CheckoutURL string
	// AmountCents and Currency echo what the provider was asked to charge.
	AmountCents int64
	Currency    string
}

// Notification is a verified, normalized webhook delivery. Providers parse
// their own payload shapes into this form.
type Notification struct {
	// Event is the provider event name, e.g. "payment.captured".
	Event string
	// OrderRef is the provider order identifier the event refers to.
	OrderRef string
	// Paid reports whether the event represents a successful capture.
	Paid bool
}

// Provider is the polymorphic payment capability. Both integrations satisfy
// it and call sites never special-case one of them.
type Provider interface {
	// Name returns the provider code used in routes and order records.
	Name() string

	// CreateOrder registers a checkout at the provider for the given amount.
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (*Order, error)

	// VerifyNotification authenticates a webhook delivery using the raw body
	// and request headers, returning the normalized event. ErrBadSignature is
	// returned when authentication fails.
	VerifyNotification(ctx context.Context, body []byte, header http.Header) (*Notification, error)
}
