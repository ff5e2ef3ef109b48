package types

import "context"

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID stores the batch run ID in the context. The run ID is generated
// once per invocation and propagated to all outbound HTTP calls via the
// X-Request-Id header for cross-service correlation.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// GetRunID retrieves the run ID from the context. Returns "" if unset.
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
