// Package payment talks to the external checkout session endpoint. The
// endpoint is optional; an unconfigured client reports itself disabled and
// callers fall back to the local payment flow.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seva-innovations/storefront-vault/internal/logging"
)

// LineItem is one purchasable row of a checkout session request.
type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest is the payload posted to the checkout endpoint.
type CheckoutRequest struct {
	LineItems     []LineItem        `json:"lineItems"`
	SuccessURL    string            `json:"successUrl"`
	CancelURL     string            `json:"cancelUrl"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CheckoutSession is the endpoint's response: an id to correlate on return
// and the hosted payment page to redirect the customer to.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type Client struct {
	endpoint string
	http     *http.Client
	log      logging.Logger
}

func NewClient(endpoint string, log logging.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

// Enabled reports whether a checkout endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// CreateSession posts the checkout request once. No retries; the caller
// decides whether to fall back to the local flow.
func (c *Client) CreateSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("checkout endpoint is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout endpoint returned status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout response carries no redirect url")
	}

	c.log.Info(ctx, "checkout session created", "session_id", session.SessionID)
	return &session, nil
}
