package resender

import (
	"fmt"

	"ordersweep/internal/types"
)

// ClassifySearch turns the raw order-search envelope into a tagged
// SearchResult. The backend reports many of its own failures in-band with a
// 200 status, so classification works off the envelope shape rather than
// the HTTP status:
//
//   - total_count missing, errors non-empty: BackendError
//   - total_count missing, message set: BackendError
//   - total_count missing, items non-empty: BackendError (inconsistent)
//   - total_count missing, otherwise: Empty
//   - total_count == 0: Empty
//   - otherwise: Found, items returned verbatim (no reordering, no dedup)
//
// By policy both Empty and BackendError end the run cleanly; the caller
// logs Detail and stops.
func ClassifySearch(search *types.OrderSearchResponse, windowStart string) SearchResult {
	if search.TotalCount == nil {
		switch {
		case len(search.Errors) > 0:
			return SearchResult{
				Outcome: SearchBackendError,
				Detail:  fmt.Sprintf("backend reported errors: %v", search.Errors),
			}
		case search.Message != "":
			return SearchResult{
				Outcome: SearchBackendError,
				Detail:  fmt.Sprintf("backend message: %s", search.Message),
			}
		case len(search.Items) > 0:
			return SearchResult{
				Outcome: SearchBackendError,
				Detail:  "inconsistent response: items present but total_count missing",
			}
		default:
			return SearchResult{
				Outcome: SearchEmpty,
				Detail:  fmt.Sprintf("no orders found since %s", windowStart),
			}
		}
	}

	if *search.TotalCount == 0 {
		return SearchResult{
			Outcome: SearchEmpty,
			Detail:  fmt.Sprintf("no orders found since %s", windowStart),
		}
	}

	return SearchResult{
		Outcome:    SearchFound,
		Orders:     search.Items,
		TotalCount: *search.TotalCount,
	}
}
