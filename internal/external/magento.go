package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"ordersweep/internal/types"
)

// orderSearchFields is the field projection requested from the order-search
// endpoint. It trims the response down to exactly what the pipeline needs,
// plus the top-level error/metadata fields used to classify empty responses.
const orderSearchFields = "items[" +
	"entity_id,increment_id,email_sent,status,status_histories[comment]" +
	"],errors,message,code,trace,parameters,total_count"

// maxErrorBodyRead limits how much of an error response body is read for
// diagnostic messages.
const maxErrorBodyRead = 4096

// MagentoClientConfig holds the configuration for creating a MagentoClient.
type MagentoClientConfig struct {
	BaseURL    string
	SearchPath string // e.g. /rest/V1/orders
	OrderPath  string // e.g. /rest/V1/order/

	AuthToken         types.SecretString // Authorization header value
	SecretHeaderName  string             // deployment-specific edge header
	SecretHeaderValue types.SecretString

	Logger *slog.Logger
}

// MagentoClient talks to the Magento order backend: searching recent orders,
// fetching a single full order detail, and requesting a confirmation email
// resend. All calls carry the store's auth headers and are routed through
// BaseClient.
type MagentoClient struct {
	base *BaseClient
	cfg  MagentoClientConfig

	baseURL string
	logger  *slog.Logger
}

// NewMagentoClient creates a MagentoClient. The httpClient timeout should be
// set appropriately for the store's API (e.g. 30 seconds).
func NewMagentoClient(httpClient *http.Client, cfg MagentoClientConfig) *MagentoClient {
	return NewMagentoClientWithBase(
		NewBaseClient(httpClient, "magento", "OrderSweep/1.0"),
		cfg,
	)
}

// NewMagentoClientWithBase creates a MagentoClient with a pre-configured
// BaseClient. Useful for testing.
func NewMagentoClientWithBase(base *BaseClient, cfg MagentoClientConfig) *MagentoClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MagentoClient{
		base:    base,
		cfg:     cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// setAuthHeaders applies the store's credentials to an outbound request.
func (c *MagentoClient) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.cfg.AuthToken.Unmask())
	if c.cfg.SecretHeaderName != "" {
		req.Header.Set(c.cfg.SecretHeaderName, c.cfg.SecretHeaderValue.Unmask())
	}
}

// SearchOrders queries the order-search endpoint for orders created at or
// after windowStart (the backend's expected "2006-01-02 15:04:05" format).
//
// Two filter groups combine to form an AND relationship in the criteria:
// created_at >= windowStart, and email_sent == 0. The second filter is sent
// for parity with the backend's API but cannot be relied on: the email_sent
// field does not exist on an order until it is set, so already-sent orders
// can still appear in the result and must be skipped client-side.
//
// The raw decoded envelope is returned regardless of HTTP status; the
// backend reports its own errors in-band via the errors/message fields and
// the caller classifies them. Only transport failures and an undecodable
// body are returned as errors.
func (c *MagentoClient) SearchOrders(ctx context.Context, windowStart string) (*types.OrderSearchResponse, error) {
	params := url.Values{}
	params.Set("searchCriteria[filter_groups][0][filters][0][field]", "created_at")
	params.Set("searchCriteria[filter_groups][0][filters][0][value]", windowStart)
	params.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "gteq")
	params.Set("searchCriteria[filter_groups][1][filters][0][field]", "email_sent")
	params.Set("searchCriteria[filter_groups][1][filters][0][value]", "0")
	params.Set("searchCriteria[filter_groups][1][filters][0][condition_type]", "eq")
	params.Set("fields", orderSearchFields)

	reqURL := c.baseURL + c.cfg.SearchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create order search request",
			err,
		)
	}
	c.setAuthHeaders(req)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var search types.OrderSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamBackend,
			fmt.Sprintf("order search returned undecodable body (status %d)", resp.StatusCode),
			err,
		)
	}

	return &search, nil
}

// GetOrderDetail fetches the full order record for the given entity ID.
//
// The detail is returned as a generic map rather than a struct: the
// escalation projection forwards nested structures (addresses, item lists)
// verbatim, and one of its keys (the order comment field) is configurable
// per deployment.
func (c *MagentoClient) GetOrderDetail(ctx context.Context, entityID int64) (map[string]any, error) {
	reqURL := fmt.Sprintf("%s%s%d", c.baseURL, c.cfg.OrderPath, entityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create order detail request",
			err,
		)
	}
	c.setAuthHeaders(req)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
		return nil, types.NewAppError(
			types.ErrCodeUpstreamBackend,
			fmt.Sprintf("order detail request for entity %d returned %d: %s", entityID, resp.StatusCode, string(body)),
			nil,
		)
	}

	var detail map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamBackend,
			fmt.Sprintf("order detail for entity %d returned undecodable body", entityID),
			err,
		)
	}

	return detail, nil
}

// ResendEmail asks the backend to resend the order confirmation email for
// the given entity ID.
//
// A 200 response whose body is the JSON string "true" means the backend
// confirmed the send; any other 200 body means the request was accepted but
// the send is unconfirmed. Both are success from a control-flow perspective.
// A non-200 response is an error.
func (c *MagentoClient) ResendEmail(ctx context.Context, entityID int64) (confirmed bool, err error) {
	reqURL := fmt.Sprintf("%s%s%d/emails", c.baseURL, c.cfg.OrderPath, entityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(nil))
	if err != nil {
		return false, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create resend email request",
			err,
		)
	}
	c.setAuthHeaders(req)

	resp, err := c.base.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyRead))
		return false, types.NewAppError(
			types.ErrCodeUpstreamBackend,
			fmt.Sprintf("resend email request for entity %d returned %d: %s", entityID, resp.StatusCode, string(body)),
			nil,
		)
	}

	// The endpoint responds with a JSON-encoded boolean-like string.
	var result string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.WarnContext(ctx, "resend email response body was not a JSON string",
			"entity_id", entityID,
			"error", err.Error(),
		)
		return false, nil
	}

	return result == "true", nil
}
