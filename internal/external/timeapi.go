package external

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"ordersweep/internal/types"
)

// timeAPIBase is the default timeapi.io base URL. Overridable in tests via
// TimeAPIClientConfig.BaseURL.
const timeAPIBase = "https://timeapi.io"

// TimeAPIClientConfig holds the configuration for creating a TimeAPIClient.
type TimeAPIClientConfig struct {
	BaseURL string // Override for testing; defaults to timeAPIBase
	Logger  *slog.Logger
}

// timezoneResponse is the subset of the timeapi.io /api/timezone/zone
// response the resender cares about. The field is a pointer so a reachable
// but shape-changed response (field absent) is distinguishable from false.
type timezoneResponse struct {
	IsDayLightSavingActive *bool `json:"isDayLightSavingActive"`
}

// TimeAPIClient queries timeapi.io for daylight-saving status of the
// reference timezone. Magento's created_at filtering has a known defect: it
// does not account for DST, so while clocks are forward the sync window must
// be widened by one hour. The oracle is what tells us whether that is the
// case right now.
type TimeAPIClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

// NewTimeAPIClient creates a TimeAPIClient. The httpClient timeout should be
// set by the caller.
func NewTimeAPIClient(httpClient *http.Client, cfg TimeAPIClientConfig) *TimeAPIClient {
	return NewTimeAPIClientWithBase(
		NewBaseClient(httpClient, "timeapi", "OrderSweep/1.0"),
		cfg,
	)
}

// NewTimeAPIClientWithBase creates a TimeAPIClient with a pre-configured
// BaseClient. Useful for testing.
func NewTimeAPIClientWithBase(base *BaseClient, cfg TimeAPIClientConfig) *TimeAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = timeAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TimeAPIClient{
		base:    base,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// IsDaylightSavingActive reports whether DST is currently active in the given
// timezone.
//
// Failure policy mirrors the reconciliation design:
//   - Network-level failure: returned as an error; the run terminates.
//   - Reachable but unexpected shape (expected field missing): assume DST is
//     active, since that widens the window and is the safer compensation.
func (c *TimeAPIClient) IsDaylightSavingActive(ctx context.Context, timezone string) (bool, error) {
	reqURL := fmt.Sprintf("%s/api/timezone/zone?timeZone=%s", c.baseURL, url.QueryEscape(timezone))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create time API request",
			err,
		)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return false, types.NewAppError(
			types.ErrCodeUpstreamTimeAPI,
			"daylight-saving oracle unreachable",
			err,
		)
	}
	defer resp.Body.Close()

	var tz timezoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&tz); err != nil {
		return false, types.NewAppError(
			types.ErrCodeUpstreamTimeAPI,
			"daylight-saving oracle returned unparseable body",
			err,
		)
	}

	if tz.IsDayLightSavingActive == nil {
		// The API changed shape under us. Assume DST as this covers the
		// larger time period.
		c.logger.WarnContext(ctx, "time API response missing isDayLightSavingActive, assuming DST active",
			"timezone", timezone,
			"status", resp.StatusCode,
		)
		return true, nil
	}

	return *tz.IsDayLightSavingActive, nil
}
