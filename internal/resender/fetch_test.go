package resender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersweep/internal/types"
)

func intPtr(v int) *int { return &v }

func TestClassifySearch_Found(t *testing.T) {
	orders := []types.Order{
		{IncrementID: "6000012345"},
		{IncrementID: "6000012346"},
	}
	search := &types.OrderSearchResponse{
		TotalCount: intPtr(2),
		Items:      orders,
	}

	result := ClassifySearch(search, "2026-01-15 11:30:00")

	require.Equal(t, SearchFound, result.Outcome)
	assert.Equal(t, 2, result.TotalCount)
	// Items are returned verbatim: same order, no dedup.
	assert.Equal(t, orders, result.Orders)
}

func TestClassifySearch_ZeroCountIsEmpty(t *testing.T) {
	search := &types.OrderSearchResponse{
		TotalCount: intPtr(0),
		Items:      []types.Order{},
	}

	result := ClassifySearch(search, "2026-01-15 11:30:00")

	assert.Equal(t, SearchEmpty, result.Outcome)
	assert.Contains(t, result.Detail, "2026-01-15 11:30:00")
}

func TestClassifySearch_MissingTotalCount(t *testing.T) {
	tests := []struct {
		name            string
		search          *types.OrderSearchResponse
		expectedOutcome SearchOutcome
		detailContains  string
	}{
		{
			name: "errors take priority",
			search: &types.OrderSearchResponse{
				Errors:  []any{"boom"},
				Message: "also a message",
			},
			expectedOutcome: SearchBackendError,
			detailContains:  "errors",
		},
		{
			name: "message",
			search: &types.OrderSearchResponse{
				Message: "The consumer isn't authorized to access resource.",
			},
			expectedOutcome: SearchBackendError,
			detailContains:  "consumer isn't authorized",
		},
		{
			name: "items without total_count is inconsistent",
			search: &types.OrderSearchResponse{
				Items: []types.Order{{IncrementID: "6000012345"}},
			},
			expectedOutcome: SearchBackendError,
			detailContains:  "inconsistent",
		},
		{
			name:            "bare empty envelope",
			search:          &types.OrderSearchResponse{},
			expectedOutcome: SearchEmpty,
			detailContains:  "no orders found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifySearch(tt.search, "2026-01-15 11:30:00")
			assert.Equal(t, tt.expectedOutcome, result.Outcome)
			assert.Contains(t, result.Detail, tt.detailContains)
			assert.Empty(t, result.Orders)
		})
	}
}
