package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seva-innovations/storefront-vault/internal/logging"
)

func TestEnabled(t *testing.T) {
	assert.False(t, NewClient("", logging.NewDefault()).Enabled())
	assert.True(t, NewClient("http://localhost:9000/checkout", logging.NewDefault()).Enabled())
}

func TestCreateSession(t *testing.T) {
	var got CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(CheckoutSession{SessionID: "cs_123", URL: "https://pay.example.com/cs_123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDefault())
	session, err := c.CreateSession(context.Background(), &CheckoutRequest{
		LineItems:     []LineItem{{Name: "Lavender Soap", Amount: 1250, Quantity: 2}},
		SuccessURL:    "https://shop.example.com/success",
		CancelURL:     "https://shop.example.com/cancel",
		CustomerEmail: "jane@example.com",
		Metadata:      map[string]string{"orderId": "order_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.SessionID)
	assert.Equal(t, "https://pay.example.com/cs_123", session.URL)
	assert.Equal(t, "jane@example.com", got.CustomerEmail)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, int64(1250), got.LineItems[0].Amount)
}

func TestCreateSession_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, logging.NewDefault()).CreateSession(context.Background(), &CheckoutRequest{})
	assert.ErrorContains(t, err, "502")
}

func TestCreateSession_MissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CheckoutSession{SessionID: "cs_123"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, logging.NewDefault()).CreateSession(context.Background(), &CheckoutRequest{})
	assert.ErrorContains(t, err, "redirect url")
}

func TestCreateSession_Disabled(t *testing.T) {
	_, err := NewClient("", logging.NewDefault()).CreateSession(context.Background(), &CheckoutRequest{})
	assert.Error(t, err)
}
