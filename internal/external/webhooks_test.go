package external

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersweep/internal/types"
)

func newTestWebhookClient(alertURL, emailURL string) *WebhookClient {
	return NewWebhookClient(
		&http.Client{Timeout: 5 * time.Second},
		WebhookClientConfig{AlertURL: alertURL, EmailURL: emailURL},
	)
}

func TestPostAlert(t *testing.T) {
	var got types.AlertPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	client := newTestWebhookClient(server.URL, server.URL)

	payload := types.AlertPayload{
		EntityID:    42,
		IncrementID: "6000012345",
		Message:     "Order 6000012345 (42) could not be sent by Magento and has been manually sent to sales.",
	}
	require.NoError(t, client.PostAlert(context.Background(), payload))
	assert.Equal(t, payload, got)
}

func TestPostAlert_Non2xxIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestWebhookClient(server.URL, server.URL)

	// A flaky alert channel must not block the escalation itself.
	err := client.PostAlert(context.Background(), types.AlertPayload{IncrementID: "6000012345"})
	assert.NoError(t, err)
}

func TestPostAlert_TransportFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestWebhookClient(server.URL, server.URL)

	err := client.PostAlert(context.Background(), types.AlertPayload{IncrementID: "6000012345"})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWebhook, appErr.Code)
}

func TestForwardOrder(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	client := newTestWebhookClient(server.URL, server.URL)

	payload := types.OrderForwardPayload{
		CustomerName: "Ada Lovelace",
		IncrementID:  "6000012345",
		GrandTotal:   120.5,
	}
	require.NoError(t, client.ForwardOrder(context.Background(), payload))

	assert.Equal(t, "Ada Lovelace", got["customer_name"])
	assert.Equal(t, "6000012345", got["increment_id"])
	assert.Equal(t, 120.5, got["grand_total"])
}

func TestForwardOrder_Non200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "missing field"}`))
	}))
	defer server.Close()

	client := newTestWebhookClient(server.URL, server.URL)

	err := client.ForwardOrder(context.Background(), types.OrderForwardPayload{})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWebhook, appErr.Code)
	assert.Contains(t, appErr.Message, "422")
}
