package resender

import (
	"strings"

	"ordersweep/internal/types"
)

// CountResendAttempts infers how many automated resend attempts an order has
// already had by counting history comments that start with the marker
// prefix. The match is an exact, case-sensitive prefix check with no
// trimming.
//
// This is derived state: the backend appends exactly one marker comment per
// successful resend, and the count is recomputed fresh every run. The
// coupling to free-text comments is an integration constraint against a
// backend this system does not control, which is why it lives behind this
// one function.
func CountResendAttempts(order types.Order, markerPrefix string) int {
	if len(order.History) == 0 {
		return 0
	}

	attempts := 0
	for _, entry := range order.History {
		if strings.HasPrefix(entry.Comment, markerPrefix) {
			attempts++
		}
	}
	return attempts
}
