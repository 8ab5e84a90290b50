package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/eventbus"
	"github.com/hatchboard/leadflow/pkg/events"
	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/hatchboard/leadflow/pkg/simulation"
)

// TestRun coordinates asynchronous dry runs: Submit creates the job record
// and notifies workers, Execute performs the simulation, Status serves the
// pollers.
type TestRun struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	executor    *simulation.Executor
	logger      *slog.Logger
}

// NewTestRun creates a test-run service.
func NewTestRun(p persistence.Persistence, bus eventbus.EventPublisher, executor *simulation.Executor, logger *slog.Logger) *TestRun {
	return &TestRun{
		persistence: p,
		eventBus:    bus,
		executor:    executor,
		logger:      logger,
	}
}

// Submit creates a pending test run for the workflow and publishes the
// request for a worker. An empty leadID means the run uses the synthetic
// subject.
func (s *TestRun) Submit(ctx context.Context, workflowID, leadID string) (*models.TestRun, error) {
	g, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if !hasTrigger(g) {
		return nil, ErrTriggerNodeRequired
	}

	run := &models.TestRun{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		LeadID:     leadID,
		Status:     models.TestRunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.persistence.TestRunRepository().Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save test run: %w", err)
	}

	event := events.TestRunRequested{
		BaseEvent: events.NewBaseEvent(events.TestRunRequestedEvent, workflowID),
		TestRunID: run.ID,
		LeadID:    leadID,
	}

	if err := s.eventBus.Publish(ctx, workflowID, event); err != nil {
		return nil, fmt.Errorf("failed to publish test run request: %w", err)
	}

	return run, nil
}

// Status returns the current job record for a run.
func (s *TestRun) Status(ctx context.Context, workflowID, runID string) (*models.TestRun, error) {
	return s.persistence.TestRunRepository().GetByID(ctx, workflowID, runID)
}

// Leads returns up to limit leads for the simulation-subject selector.
func (s *TestRun) Leads(ctx context.Context, limit int) ([]*models.TestLead, error) {
	return s.persistence.LeadRepository().List(ctx, limit)
}

// Execute performs the dry run for a submitted job and stores the terminal
// record. Called by the worker on a TestRunRequested event.
func (s *TestRun) Execute(ctx context.Context, workflowID, runID string) error {
	logger := s.logger.With("workflow_id", workflowID, "test_run_id", runID)

	run, err := s.persistence.TestRunRepository().GetByID(ctx, workflowID, runID)
	if err != nil {
		return err
	}

	g, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("failed to load workflow: %w", err))
	}

	lead := s.resolveLead(ctx, run.LeadID, logger)

	run.Status = models.TestRunStatusRunning
	if err := s.persistence.TestRunRepository().Save(ctx, run); err != nil {
		return fmt.Errorf("failed to mark test run running: %w", err)
	}

	startedEvent := events.TestRunStarted{
		BaseEvent: events.NewBaseEvent(events.TestRunStartedEvent, workflowID),
		TestRunID: run.ID,
	}
	if err := s.eventBus.Publish(ctx, workflowID, startedEvent); err != nil {
		logger.Warn("failed to publish test run started event", "error", err)
	}

	result := s.executor.Run(ctx, g, lead)

	now := time.Now().UTC()
	run.Result = result
	run.Error = result.Error
	run.FinishedAt = &now

	if result.Success {
		run.Status = models.TestRunStatusCompleted
	} else {
		run.Status = models.TestRunStatusFailed
	}

	if err := s.persistence.TestRunRepository().Save(ctx, run); err != nil {
		return fmt.Errorf("failed to save test run result: %w", err)
	}

	s.publishTerminal(ctx, run, result)

	return nil
}

func (s *TestRun) resolveLead(ctx context.Context, leadID string, logger *slog.Logger) *models.TestLead {
	if leadID == "" {
		return models.SyntheticLead()
	}

	lead, err := s.persistence.LeadRepository().GetByID(ctx, leadID)
	if err != nil {
		logger.Warn("failed to load lead, using synthetic subject", "lead_id", leadID, "error", err)

		return models.SyntheticLead()
	}

	return lead
}

func (s *TestRun) fail(ctx context.Context, run *models.TestRun, cause error) error {
	now := time.Now().UTC()
	run.Status = models.TestRunStatusFailed
	run.Error = cause.Error()
	run.FinishedAt = &now

	if err := s.persistence.TestRunRepository().Save(ctx, run); err != nil {
		return fmt.Errorf("failed to save failed test run: %w", err)
	}

	s.publishTerminal(ctx, run, nil)

	return cause
}

func (s *TestRun) publishTerminal(ctx context.Context, run *models.TestRun, result *models.TestResult) {
	var event eventbus.Event

	if run.Status == models.TestRunStatusCompleted && result != nil {
		event = events.TestRunCompleted{
			BaseEvent:    events.NewBaseEvent(events.TestRunCompletedEvent, run.WorkflowID),
			TestRunID:    run.ID,
			VisitedNodes: len(result.State.VisitedNodes),
			ActionsTaken: len(result.ActionsTaken),
		}
	} else {
		event = events.TestRunFailed{
			BaseEvent: events.NewBaseEvent(events.TestRunFailedEvent, run.WorkflowID),
			TestRunID: run.ID,
			Error:     run.Error,
		}
	}

	if err := s.eventBus.Publish(ctx, run.WorkflowID, event); err != nil {
		s.logger.Warn("failed to publish terminal test run event",
			"test_run_id", run.ID, "error", err)
	}
}

func hasTrigger(g *models.WorkflowGraph) bool {
	for _, node := range g.Nodes {
		if catalog.Class(node.Type) == models.ClassTrigger {
			return true
		}
	}

	return false
}
