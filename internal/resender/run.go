package resender

import (
	"context"
	"log/slog"
)

// Runner composes the four stages of the job: window calculation, order
// fetch, retry inference, and dispatch. It is the single point where the
// "stop cleanly or continue" decision is made from the classified search
// result.
type Runner struct {
	windows    *WindowCalculator
	backend    Backend
	dispatcher *Dispatcher
	metrics    MetricsRecorder
	logger     *slog.Logger
}

// RunnerConfig holds the dependencies for a Runner. Metrics may be nil to
// disable run-summary metrics.
type RunnerConfig struct {
	Windows    *WindowCalculator
	Backend    Backend
	Dispatcher *Dispatcher
	Metrics    MetricsRecorder
	Logger     *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		windows:    cfg.Windows,
		backend:    cfg.Backend,
		dispatcher: cfg.Dispatcher,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Run executes one complete pass. It returns a RunSummary in every case a
// summary can be produced, including alongside a non-nil error when dispatch
// aborted partway.
//
// Empty and backend-error search outcomes are benign by policy: they are
// logged and the run ends cleanly with a nil error, because "no work found"
// and "backend answered with an error envelope" both just mean the next
// scheduled invocation should try again.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	windowStart, err := r.windows.WindowStart(ctx)
	if err != nil {
		return nil, err
	}

	search, err := r.backend.SearchOrders(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	result := ClassifySearch(search, windowStart)
	summary := &RunSummary{
		WindowStart: windowStart,
		Outcome:     result.Outcome,
		TotalFound:  result.TotalCount,
	}

	switch result.Outcome {
	case SearchEmpty:
		r.logger.InfoContext(ctx, result.Detail, "window_start", windowStart)
		r.record(ctx, summary)
		return summary, nil

	case SearchBackendError:
		r.logger.WarnContext(ctx, "order search did not return a usable result, exiting cleanly",
			"window_start", windowStart,
			"detail", result.Detail,
		)
		r.record(ctx, summary)
		return summary, nil
	}

	r.logger.InfoContext(ctx, "found orders to reconcile",
		"total_count", result.TotalCount,
		"window_start", windowStart,
	)

	dispatch, dispatchErr := r.dispatcher.Process(ctx, result.Orders)
	summary.Dispatch = dispatch
	r.record(ctx, summary)

	if dispatchErr != nil {
		return summary, dispatchErr
	}
	return summary, nil
}

// record emits the run-summary metrics when a recorder is configured.
// Metric failures never affect the run result.
func (r *Runner) record(ctx context.Context, s *RunSummary) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordRunSummary(ctx, s.TotalFound, s.Dispatch.Resent, s.Dispatch.Escalated, s.Dispatch.Skipped)
}
