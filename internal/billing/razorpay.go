package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// razorpaySignatureHeader carries the hex HMAC-SHA256 of the raw body.
const razorpaySignatureHeader = "X-Razorpay-Signature"

// Razorpay integrates the Razorpay Orders API. Orders are created with basic
// auth over the key pair; webhooks are authenticated with an HMAC-SHA256 of
// the raw body under the webhook secret.
type Razorpay struct {
	// BaseURL is the API origin, e.g. "https://api.razorpay.com".
	BaseURL string
	// KeyID and KeySecret are the basic-auth API credentials.
	KeyID     string
	KeySecret string
	// WebhookSecret signs webhook deliveries.
	WebhookSecret string
	// Client is the HTTP client used for API calls.
	Client *http.Client
}

// NewRazorpay constructs a Razorpay provider with a timeout-bounded client.
func NewRazorpay(baseURL, keyID, keySecret, webhookSecret string) *Razorpay {
	return &Razorpay{
		BaseURL:       baseURL,
		KeyID:         keyID,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		Client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider code.
func (r *Razorpay) Name() string { return "razorpay" }

// CreateOrder registers an order via POST /v1/orders.
func (r *Razorpay) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (*Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amountCents,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.BaseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.KeyID, r.KeySecret)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, body)
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &Order{Ref: out.ID, AmountCents: out.Amount, Currency: out.Currency}, nil
}

// VerifyNotification checks the body HMAC and parses the Razorpay event
// envelope.
func (r *Razorpay) VerifyNotification(_ context.Context, body []byte, header http.Header) (*Notification, error) {
	sig := header.Get(razorpaySignatureHeader)
	if sig == "" || !verifyHMACHex(r.WebhookSecret, body, sig) {
		return nil, ErrBadSignature
	}

	var evt struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					OrderID string `json:"order_id"`
					Status  string `json:"status"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, err
	}

	return &Notification{
		Event:    evt.Event,
		OrderRef: evt.Payload.Payment.Entity.OrderID,
		Paid:     evt.Event == "payment.captured",
	}, nil
}

// verifyHMACHex constant-time compares a hex HMAC-SHA256 of body under secret
// against the presented signature.
func verifyHMACHex(secret string, body []byte, presented string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(want), []byte(presented)) == 1
}
