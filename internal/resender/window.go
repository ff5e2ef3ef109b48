package resender

import (
	"context"
	"fmt"
	"time"

	"ordersweep/internal/types"
)

// backendTimeLayout is the exact date-time format the Magento search API
// expects: seconds precision, no timezone suffix.
const backendTimeLayout = "2006-01-02 15:04:05"

// WindowCalculator computes the lower bound of the polling window.
//
// Magento's created_at filtering has a known off-by-one-hour defect while
// daylight saving is active in the store's timezone, so the window is
// widened by one extra hour whenever the DST oracle says clocks are forward.
type WindowCalculator struct {
	oracle   DSTOracle
	clock    types.Clock
	timezone string
	orderAge time.Duration
}

// NewWindowCalculator creates a WindowCalculator. orderAgeMins is the
// configured age threshold in minutes; timezone is the store's reference
// timezone name (e.g. "Europe/London").
func NewWindowCalculator(oracle DSTOracle, clock types.Clock, timezone string, orderAgeMins int) *WindowCalculator {
	if clock == nil {
		clock = types.RealClock{}
	}

	return &WindowCalculator{
		oracle:   oracle,
		clock:    clock,
		timezone: timezone,
		orderAge: time.Duration(orderAgeMins) * time.Minute,
	}
}

// WindowStart returns "now minus the age threshold" in the reference
// timezone, minus one extra hour if daylight saving is active, formatted the
// way the backend's query API expects.
//
// An unreachable oracle fails the run; there is no fallback default. An
// oracle that answers but without the expected field counts as "active"
// (handled inside the oracle client), which widens the window and is the
// safer compensation.
func (w *WindowCalculator) WindowStart(ctx context.Context) (string, error) {
	loc, err := time.LoadLocation(w.timezone)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown reference timezone %q", w.timezone),
			err,
		)
	}

	start := w.clock.Now().In(loc).Add(-w.orderAge)

	dstActive, err := w.oracle.IsDaylightSavingActive(ctx, w.timezone)
	if err != nil {
		return "", err
	}
	if dstActive {
		start = start.Add(-time.Hour)
	}

	return start.Format(backendTimeLayout), nil
}
