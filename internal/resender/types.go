// Package resender implements the reconciliation workflow for undelivered
// order confirmation emails: compute the sync window, fetch candidate orders
// from Magento, infer how many resend attempts each order has already had
// from its history comments, and either request another resend or escalate
// to a human.
//
// The whole job is a single sequential pass. There is no concurrency across
// orders and no state kept between runs; everything is reconstructed from
// the backend on each invocation.
package resender

import (
	"context"

	"ordersweep/internal/types"
)

// DSTOracle reports whether daylight saving is currently active in a
// timezone. Implemented by external.TimeAPIClient.
type DSTOracle interface {
	IsDaylightSavingActive(ctx context.Context, timezone string) (bool, error)
}

// Backend is the order-management system of record. Implemented by
// external.MagentoClient.
type Backend interface {
	SearchOrders(ctx context.Context, windowStart string) (*types.OrderSearchResponse, error)
	GetOrderDetail(ctx context.Context, entityID int64) (map[string]any, error)
	ResendEmail(ctx context.Context, entityID int64) (confirmed bool, err error)
}

// EscalationSink receives the two escalation side effects. Implemented by
// external.WebhookClient.
type EscalationSink interface {
	PostAlert(ctx context.Context, payload types.AlertPayload) error
	ForwardOrder(ctx context.Context, payload types.OrderForwardPayload) error
}

// MetricsRecorder receives the run summary counts. Implemented by
// observe.CloudWatchRecorder; a nil recorder disables metrics.
type MetricsRecorder interface {
	RecordRunSummary(ctx context.Context, found, resent, escalated, skipped int)
}

// SearchOutcome tags the classified result of the order search. Termination
// is a caller decision: the fetch layer never exits the process itself, it
// hands one of these up to the runner.
type SearchOutcome string

const (
	// SearchFound means qualifying orders were returned and must be processed.
	SearchFound SearchOutcome = "found"
	// SearchEmpty means the backend reported zero qualifying orders.
	SearchEmpty SearchOutcome = "empty"
	// SearchBackendError means the backend answered with an in-band error or
	// an inconsistent envelope. Treated the same as empty by policy: logged
	// and the run ends cleanly, the next scheduled invocation retries.
	SearchBackendError SearchOutcome = "backend_error"
)

// SearchResult is the classified order-search response.
type SearchResult struct {
	Outcome    SearchOutcome
	Orders     []types.Order
	TotalCount int
	// Detail is a human-readable explanation for Empty/BackendError outcomes.
	Detail string
}

// DispatchResult accumulates what happened to each processed order.
type DispatchResult struct {
	// Outcomes holds one human-readable sentence per processed order, in
	// input sequence. Skipped orders produce no outcome.
	Outcomes  []string
	Resent    int
	Escalated int
	Skipped   int
}

// RunSummary describes one complete invocation of the job.
type RunSummary struct {
	WindowStart string
	Outcome     SearchOutcome
	TotalFound  int
	Dispatch    DispatchResult
}
