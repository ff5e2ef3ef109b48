package resender

import (
	"context"
	"fmt"
	"log/slog"

	"ordersweep/internal/types"
)

// Dispatcher decides and executes the per-order action: skip, resend, or
// escalate. Orders are processed strictly in input sequence; a hard failure
// on one order aborts the remainder of the batch (whole-batch-abort is the
// chosen failure policy, the external scheduler re-runs the job later).
type Dispatcher struct {
	backend Backend
	sink    EscalationSink

	maxAttempts   int
	commentPrefix string
	commentField  string

	logger *slog.Logger
}

// DispatcherConfig holds the dependencies and policy knobs for a Dispatcher.
type DispatcherConfig struct {
	Backend       Backend
	Sink          EscalationSink
	MaxAttempts   int
	CommentPrefix string
	CommentField  string
	Logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		backend:       cfg.Backend,
		sink:          cfg.Sink,
		maxAttempts:   cfg.MaxAttempts,
		commentPrefix: cfg.CommentPrefix,
		commentField:  cfg.CommentField,
		logger:        logger,
	}
}

// Process walks the fetched orders in sequence. For each order it skips
// already-sent records, counts prior resend attempts, and runs either the
// resend branch or the escalation branch. Each processed order contributes
// one outcome sentence.
//
// Cancellation is honored between orders, never mid-call, so an external
// stop signal aborts cleanly at an order boundary. On any hard error the
// partial DispatchResult is returned alongside the error.
func (d *Dispatcher) Process(ctx context.Context, orders []types.Order) (DispatchResult, error) {
	var result DispatchResult

	for i := range orders {
		if err := ctx.Err(); err != nil {
			return result, types.NewAppError(
				types.ErrCodeInternalUnexpected,
				fmt.Sprintf("run cancelled after %d of %d orders", i, len(orders)),
				err,
			)
		}

		order := orders[i]

		// A false positive from the window-only server-side filter: the
		// backend already delivered this email.
		if order.EmailAlreadySent() {
			d.logger.DebugContext(ctx, "skipping order already marked email_sent",
				"increment_id", order.IncrementID,
			)
			result.Skipped++
			continue
		}

		attempts := CountResendAttempts(order, d.commentPrefix)

		var outcome string
		var err error
		if attempts >= d.maxAttempts {
			outcome, err = d.escalate(ctx, order)
			if err == nil {
				result.Escalated++
			}
		} else {
			outcome, err = d.resend(ctx, order, attempts)
			if err == nil {
				result.Resent++
			}
		}
		if err != nil {
			return result, err
		}

		d.logger.InfoContext(ctx, outcome,
			"increment_id", order.IncrementID,
			"attempts", attempts,
		)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// resend asks the backend to send the confirmation email again. A non-200
// from the resend endpoint is fatal; a 200 whose body does not confirm the
// send only changes the outcome wording.
func (d *Dispatcher) resend(ctx context.Context, order types.Order, attempts int) (string, error) {
	if order.EntityID == nil {
		return "", types.NewAppError(
			types.ErrCodeMalformedOrder,
			fmt.Sprintf("order %q has no entity_id, cannot request resend", order.IncrementID),
			nil,
		)
	}

	confirmed, err := d.backend.ResendEmail(ctx, *order.EntityID)
	if err != nil {
		return "", err
	}

	if !confirmed {
		return fmt.Sprintf(
			"Order %s should have been resent on attempt number %d, but something went wrong.",
			order.IncrementID, attempts+1,
		), nil
	}

	return fmt.Sprintf(
		"Order %s has been sent for a resend attempt. This is attempt number %d.",
		order.IncrementID, attempts+1,
	), nil
}

// escalate runs the fallback path for an order that exhausted its resend
// budget: alert the operator, fetch the full order detail, and forward the
// projected payload to the email-sending webhook.
func (d *Dispatcher) escalate(ctx context.Context, order types.Order) (string, error) {
	if order.EntityID == nil || order.IncrementID == "" {
		return "", types.NewAppError(
			types.ErrCodeMalformedOrder,
			"order is missing entity_id or increment_id, cannot escalate",
			nil,
		).WithDetails(map[string]any{
			"increment_id": order.IncrementID,
		})
	}

	entityID := *order.EntityID

	alert := types.AlertPayload{
		EntityID:    entityID,
		IncrementID: order.IncrementID,
		Message: fmt.Sprintf(
			"Order %s (%d) could not be sent by Magento and has been manually sent to sales.",
			order.IncrementID, entityID,
		),
	}
	if err := d.sink.PostAlert(ctx, alert); err != nil {
		return "", err
	}

	detail, err := d.backend.GetOrderDetail(ctx, entityID)
	if err != nil {
		return "", err
	}

	payload, err := buildForwardPayload(detail, d.commentField)
	if err != nil {
		return "", err
	}

	if err := d.sink.ForwardOrder(ctx, *payload); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"Order %s exceeded resend attempts in Magento and has been manually sent to sales.",
		order.IncrementID,
	), nil
}
