package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Session is an open checkout session at the payment provider.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"url"`
}

// CreateSessionParams describe one checkout session.
type CreateSessionParams struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

// CheckoutClient opens checkout sessions with the external payment provider.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (Session, error)
}

// HTTPCheckoutClient talks to the provider's REST API.
type HTTPCheckoutClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPCheckoutClient builds a provider client.
func NewHTTPCheckoutClient(baseURL, apiKey string) *HTTPCheckoutClient {
	return &HTTPCheckoutClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPCheckoutClient) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (Session, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return Session{}, fmt.Errorf("payment: marshal session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("payment: build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("payment: create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Session{}, fmt.Errorf("payment: create session: provider returned %d: %s", resp.StatusCode, snippet)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, fmt.Errorf("payment: decode session: %w", err)
	}
	if session.ID == "" || session.RedirectURL == "" {
		return Session{}, fmt.Errorf("payment: provider returned incomplete session")
	}
	return session, nil
}
