package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with underlying error",
			err: &AppError{
				Code:    ErrCodeUpstreamBackend,
				Message: "order search failed",
				Err:     fmt.Errorf("connection refused"),
			},
			want: "upstream_backend_unavailable: order search failed: connection refused",
		},
		{
			name: "without underlying error",
			err: &AppError{
				Code:    ErrCodeMalformedOrder,
				Message: "order record missing entity_id",
			},
			want: "malformed_order_record: order record missing entity_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("root cause")
	appErr := NewAppError(ErrCodeUpstreamTimeAPI, "dst lookup failed", underlying)

	if unwrapped := appErr.Unwrap(); unwrapped != underlying {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlying)
	}
	if !errors.Is(appErr, underlying) {
		t.Error("errors.Is should find the underlying error through Unwrap")
	}
}

func TestAppError_ErrorsAs(t *testing.T) {
	var err error = NewAppError(ErrCodeUpstreamWebhook, "forward failed", nil)
	wrapped := fmt.Errorf("dispatch aborted: %w", err)

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *AppError from a wrapped chain")
	}
	if appErr.Code != ErrCodeUpstreamWebhook {
		t.Errorf("Code = %q, want %q", appErr.Code, ErrCodeUpstreamWebhook)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	base := NewAppError(ErrCodeMalformedOrder, "bad record", nil).
		WithDetails(map[string]any{"increment_id": "6000012345"})

	enriched := base.WithDetails(map[string]any{"entity_id": int64(42)})

	// Original error is not mutated.
	if _, ok := base.Details["entity_id"]; ok {
		t.Error("WithDetails should not mutate the receiver")
	}

	if enriched.Details["increment_id"] != "6000012345" {
		t.Errorf("Details[increment_id] = %v, want %q", enriched.Details["increment_id"], "6000012345")
	}
	if enriched.Details["entity_id"] != int64(42) {
		t.Errorf("Details[entity_id] = %v, want 42", enriched.Details["entity_id"])
	}
	if enriched.Code != base.Code || enriched.Message != base.Message {
		t.Error("WithDetails should preserve code and message")
	}
}

func TestNewAppError(t *testing.T) {
	underlying := fmt.Errorf("boom")
	appErr := NewAppError(ErrCodeInternalUnexpected, "unexpected", underlying)

	if appErr.Code != ErrCodeInternalUnexpected {
		t.Errorf("Code = %q, want %q", appErr.Code, ErrCodeInternalUnexpected)
	}
	if appErr.Message != "unexpected" {
		t.Errorf("Message = %q, want %q", appErr.Message, "unexpected")
	}
	if appErr.Err != underlying {
		t.Errorf("Err = %v, want %v", appErr.Err, underlying)
	}
	if appErr.Details != nil {
		t.Errorf("Details = %v, want nil", appErr.Details)
	}
}
