// Package runner implements the client side of the test flow: it submits a
// dry run, polls the job until a terminal state, and exposes the result.
// The polling lifecycle is an explicit state machine so teardown is a
// testable transition rather than a leaked timer.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hatchboard/leadflow/pkg/models"
)

// Status is the state of the runner's submit-and-poll machine.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrRunInProgress is returned when a test run is requested while another
// is still outstanding. Runs are never queued or replaced; the first must
// reach a terminal state.
var ErrRunInProgress = errors.New("a test run is already in progress")

// DefaultPollInterval is the fixed delay between job-status polls. There is
// no backoff and no poll limit; polling ends only on a terminal status or
// teardown.
const DefaultPollInterval = time.Second

// TestRunAPI is the collaborator interface the runner drives. Transport is
// out of scope here; pkg/services satisfies it in-process and an HTTP
// client can satisfy it remotely.
type TestRunAPI interface {
	SubmitTestRun(ctx context.Context, graph *models.WorkflowGraph, leadID string) (string, error)
	GetTestRunStatus(ctx context.Context, workflowID, runID string) (*models.TestRun, error)
	LoadLeadsForTesting(ctx context.Context, limit int) ([]*models.TestLead, error)
}

// Runner tracks at most one outstanding test run. Safe for concurrent use.
type Runner struct {
	api          TestRunAPI
	logger       *slog.Logger
	pollInterval time.Duration

	mu     sync.Mutex
	status Status
	runID  string
	result *models.TestResult
	err    error
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a runner with the default 1-second poll interval.
func New(api TestRunAPI, logger *slog.Logger) *Runner {
	return &Runner{
		api:          api,
		logger:       logger,
		pollInterval: DefaultPollInterval,
		status:       StatusIdle,
	}
}

// Status returns the current machine state.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// Result returns the terminal result and error of the last run, if any.
func (r *Runner) Result() (*models.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.result, r.err
}

// Done returns a channel closed when the current run reaches a terminal
// state or is torn down. Nil when no run was started.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.done
}

// Start submits a dry run of the graph, optionally against the lead with
// the given ID ("" means the synthetic subject), and begins polling. It
// returns ErrRunInProgress while a previous run is outstanding. A
// submission failure returns the machine to idle and is surfaced to the
// caller; there is no automatic retry.
func (r *Runner) Start(ctx context.Context, graph *models.WorkflowGraph, leadID string) error {
	r.mu.Lock()

	if r.status == StatusSubmitting || r.status == StatusRunning {
		r.mu.Unlock()

		return ErrRunInProgress
	}

	r.status = StatusSubmitting
	r.result = nil
	r.err = nil
	r.mu.Unlock()

	runID, err := r.api.SubmitTestRun(ctx, graph, leadID)
	if err != nil {
		r.mu.Lock()
		r.status = StatusIdle
		r.mu.Unlock()

		return fmt.Errorf("failed to submit test run: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.status = StatusRunning
	r.runID = runID
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	go r.poll(pollCtx, graph.ID, runID, done)

	return nil
}

// Stop tears down the current run's polling. Intended for view teardown;
// the machine returns to idle and the server-side job keeps running
// unobserved.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Leads fetches candidate simulation subjects. A fetch failure degrades to
// the synthetic subject only; it never fails the test flow.
func (r *Runner) Leads(ctx context.Context, limit int) []*models.TestLead {
	leads, err := r.api.LoadLeadsForTesting(ctx, limit)
	if err != nil {
		r.logger.Warn("failed to load leads, offering synthetic subject only", "error", err)

		return []*models.TestLead{models.SyntheticLead()}
	}

	return leads
}

// poll owns the single outstanding timer. Fixed interval, no backoff; it
// stops on a terminal job status, a transport failure, or cancellation.
func (r *Runner) poll(ctx context.Context, workflowID, runID string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.finish(StatusIdle, nil, nil)

			return
		case <-ticker.C:
			run, err := r.api.GetTestRunStatus(ctx, workflowID, runID)
			if err != nil {
				if ctx.Err() != nil {
					r.finish(StatusIdle, nil, nil)

					return
				}

				r.logger.Warn("test run poll failed", "test_run_id", runID, "error", err)
				r.finish(StatusFailed, nil, fmt.Errorf("failed to poll test run: %w", err))

				return
			}

			if !run.Status.Terminal() {
				continue
			}

			if run.Status == models.TestRunStatusCompleted {
				r.finish(StatusCompleted, run.Result, nil)
			} else {
				var cause error
				if run.Error != "" {
					cause = errors.New(run.Error)
				}

				r.finish(StatusFailed, run.Result, cause)
			}

			return
		}
	}
}

func (r *Runner) finish(status Status, result *models.TestResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = status
	r.result = result
	r.err = err
	r.cancel = nil
}
