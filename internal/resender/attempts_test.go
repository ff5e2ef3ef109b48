package resender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ordersweep/internal/types"
)

const testPrefix = "Confirmation email resent automatically"

func historyOf(comments ...string) []types.StatusHistory {
	entries := make([]types.StatusHistory, 0, len(comments))
	for _, c := range comments {
		entries = append(entries, types.StatusHistory{Comment: c})
	}
	return entries
}

func TestCountResendAttempts(t *testing.T) {
	tests := []struct {
		name     string
		history  []types.StatusHistory
		expected int
	}{
		{
			name:     "no history",
			history:  nil,
			expected: 0,
		},
		{
			name:     "empty history",
			history:  []types.StatusHistory{},
			expected: 0,
		},
		{
			name: "mixed comments",
			history: historyOf(
				testPrefix+" (attempt 1)",
				testPrefix+" (attempt 2)",
				`Captured amount of £1,234.56 online. Transaction ID: "111"`,
			),
			expected: 2,
		},
		{
			name: "all matching",
			history: historyOf(
				testPrefix,
				testPrefix+" again",
				testPrefix+" and again",
			),
			expected: 3,
		},
		{
			name: "prefix match is case-sensitive",
			history: historyOf(
				"confirmation email resent automatically",
			),
			expected: 0,
		},
		{
			name: "no trimming of leading whitespace",
			history: historyOf(
				" " + testPrefix,
			),
			expected: 0,
		},
		{
			name: "prefix mid-comment does not count",
			history: historyOf(
				"note: " + testPrefix,
			),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := types.Order{History: tt.history}
			assert.Equal(t, tt.expected, CountResendAttempts(order, testPrefix))
		})
	}
}
