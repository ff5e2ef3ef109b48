package types

import (
	"context"
	"testing"
)

func TestWithRunID_GetRunID(t *testing.T) {
	t.Run("round-trip stores and retrieves run ID", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "a1b2c3d4-e5f6-7890-abcd-ef1234567890")
		if got := GetRunID(ctx); got != "a1b2c3d4-e5f6-7890-abcd-ef1234567890" {
			t.Errorf("GetRunID = %q, want the stored run ID", got)
		}
	})

	t.Run("unset context returns empty string", func(t *testing.T) {
		if got := GetRunID(context.Background()); got != "" {
			t.Errorf("GetRunID on bare context = %q, want empty string", got)
		}
	})

	t.Run("later value shadows earlier one", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "first")
		ctx = WithRunID(ctx, "second")
		if got := GetRunID(ctx); got != "second" {
			t.Errorf("GetRunID = %q, want %q", got, "second")
		}
	})
}
