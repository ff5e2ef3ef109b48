// Package external holds the HTTP clients for every collaborator the
// resender talks to: the Magento order backend, the daylight-saving time
// oracle, and the two escalation webhooks. All outbound calls are routed
// through the BaseClient, which enforces a bounded per-call timeout (via the
// wrapped *http.Client), circuit breaking, run-ID propagation, and error
// mapping.
//
// There is deliberately no retry or backoff here: the job is a single-pass
// batch invoked by an external scheduler, and a transport failure terminates
// the run so the next scheduled invocation starts clean.
package external

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"ordersweep/internal/types"
)

// BaseClient wraps an *http.Client and a circuit breaker to enforce
// consistent behavior on all outbound HTTP calls. Provider clients (Magento,
// TimeAPI, webhooks) embed a BaseClient to inherit this behavior.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient creates a BaseClient with the given http client, circuit
// breaker name, and user agent string. The httpClient's Timeout bounds every
// call; callers must set it.
func NewBaseClient(httpClient *http.Client, breakerName string, userAgent string) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &BaseClient{
		client:    httpClient,
		breaker:   cb,
		userAgent: userAgent,
	}
}

// Do executes the HTTP request with:
//  1. Run ID injection (X-Request-Id from context)
//  2. User-Agent header injection
//  3. Circuit breaker wrapping
//  4. Error mapping to types.AppError
//
// Any response with a status code, including 4xx/5xx, is returned as-is; the
// caller owns status interpretation and must close the body. Connection-level
// failures and an open breaker map to an AppError.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if runID := types.GetRunID(req.Context()); runID != "" {
		req.Header.Set("X-Request-Id", runID)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return nil, c.mapError(err)
	}

	return resp, nil
}

// mapError translates transport-level failures into domain-level AppErrors.
func (c *BaseClient) mapError(err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(
			types.ErrCodeUpstreamRateLimited,
			fmt.Sprintf("circuit breaker %q is open; upstream unavailable", c.breaker.Name()),
			err,
		)
	}

	// Network error, DNS failure, or client timeout.
	return types.NewAppError(
		types.ErrCodeUpstreamBackend,
		"upstream request failed",
		err,
	)
}
