package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PayPal integrates the PayPal Orders v2 API. API calls use an OAuth2
// client-credentials token; webhooks are authenticated through PayPal's
// verify-webhook-signature endpoint, which checks the transmission headers
// server side.
type PayPal struct {
	// BaseURL is the API origin, e.g. "https://api-m.paypal.com".
	BaseURL string
	// ClientID and ClientSecret are the OAuth2 credentials.
	ClientID     string
	ClientSecret string
	// WebhookID identifies the registered webhook for signature verification.
	WebhookID string
	// Client is the HTTP client used for API calls.
	Client *http.Client
}

// NewPayPal constructs a PayPal provider with a timeout-bounded client.
func NewPayPal(baseURL, clientID, clientSecret, webhookID string) *PayPal {
	return &PayPal{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		WebhookID:    webhookID,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider code.
func (p *PayPal) Name() string { return "paypal" }

// token fetches a client-credentials access token. Tokens are short-lived and
// fetched per call; billing traffic is far too light to warrant caching.
func (p *PayPal) token(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.ClientID, p.ClientSecret)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// CreateOrder registers a capture-intent order via POST /v2/checkout/orders.
func (p *PayPal) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (*Order, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": receipt,
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.BaseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, body)
	}

	var out struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	order := &Order{Ref: out.ID, AmountCents: amountCents, Currency: currency}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			order.CheckoutURL = l.Href
			break
		}
	}
	return order, nil
}

// VerifyNotification authenticates a delivery through PayPal's
// verify-webhook-signature API and parses the event envelope.
func (p *PayPal) VerifyNotification(ctx context.Context, body []byte, header http.Header) (*Notification, error) {
	tok, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	verifyReq := map[string]any{
		"auth_algo":         header.Get("Paypal-Auth-Algo"),
		"cert_url":          header.Get("Paypal-Cert-Url"),
		"transmission_id":   header.Get("Paypal-Transmission-Id"),
		"transmission_sig":  header.Get("Paypal-Transmission-Sig"),
		"transmission_time": header.Get("Paypal-Transmission-Time"),
		"webhook_id":        p.WebhookID,
		"webhook_event":     json.RawMessage(body),
	}
	payload, err := json.Marshal(verifyReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.BaseURL+"/v1/notifications/verify-webhook-signature", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrBadSignature
	}

	var verdict struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, err
	}
	if verdict.VerificationStatus != "SUCCESS" {
		return nil, ErrBadSignature
	}

	var evt struct {
		EventType string `json:"event_type"`
		Resource  struct {
			ID            string `json:"id"`
			Status        string `json:"status"`
			Supplementary struct {
				Related struct {
					Orders []struct {
						ID string `json:"id"`
					} `json:"orders"`
				} `json:"related_ids"`
			} `json:"supplementary_data"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, err
	}

	orderRef := evt.Resource.ID
	if len(evt.Resource.Supplementary.Related.Orders) > 0 {
		orderRef = evt.Resource.Supplementary.Related.Orders[0].ID
	}
	return &Notification{
		Event:    evt.EventType,
		OrderRef: orderRef,
		Paid:     evt.EventType == "CHECKOUT.ORDER.APPROVED" || evt.EventType == "PAYMENT.CAPTURE.COMPLETED",
	}, nil
}
