package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"ordersweep/internal/types"
)

// WebhookClientConfig holds the escalation webhook destinations.
type WebhookClientConfig struct {
	AlertURL string
	EmailURL string
	Logger   *slog.Logger
}

// WebhookClient delivers the two escalation side effects: the operator alert
// and the full order forward to the email-sending service.
type WebhookClient struct {
	base   *BaseClient
	cfg    WebhookClientConfig
	logger *slog.Logger
}

// NewWebhookClient creates a WebhookClient. The httpClient timeout should be
// set by the caller.
func NewWebhookClient(httpClient *http.Client, cfg WebhookClientConfig) *WebhookClient {
	return NewWebhookClientWithBase(
		NewBaseClient(httpClient, "webhooks", "OrderSweep/1.0"),
		cfg,
	)
}

// NewWebhookClientWithBase creates a WebhookClient with a pre-configured
// BaseClient. Useful for testing.
func NewWebhookClientWithBase(base *BaseClient, cfg WebhookClientConfig) *WebhookClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookClient{
		base:   base,
		cfg:    cfg,
		logger: logger,
	}
}

// PostAlert notifies the operator that an order exhausted its resend budget
// and is being manually forwarded.
//
// Delivery is best-effort: a non-2xx response is logged and swallowed so a
// flaky alerting channel cannot block the escalation itself. Transport
// failures still propagate, same as every other outbound call.
func (c *WebhookClient) PostAlert(ctx context.Context, payload types.AlertPayload) error {
	resp, err := c.postJSON(ctx, c.cfg.AlertURL, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
		c.logger.WarnContext(ctx, "alert webhook returned non-2xx, continuing",
			"status", resp.StatusCode,
			"increment_id", payload.IncrementID,
			"body", string(body),
		)
	}

	return nil
}

// ForwardOrder POSTs the escalation projection of a full order to the
// email-sending webhook. A non-200 response is an error: if the order cannot
// be forwarded the escalation has not happened and the run must fail loudly.
func (c *WebhookClient) ForwardOrder(ctx context.Context, payload types.OrderForwardPayload) error {
	resp, err := c.postJSON(ctx, c.cfg.EmailURL, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
		return types.NewAppError(
			types.ErrCodeUpstreamWebhook,
			fmt.Sprintf("email webhook returned %d: %s", resp.StatusCode, string(body)),
			nil,
		)
	}

	return nil
}

// postJSON serializes the payload and POSTs it through the BaseClient.
func (c *WebhookClient) postJSON(ctx context.Context, destination string, payload any) (*http.Response, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to serialize webhook payload",
			err,
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create webhook request",
			err,
		)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamWebhook,
			fmt.Sprintf("webhook delivery to %s failed", destination),
			err,
		)
	}

	return resp, nil
}
