package runner

import (
	"context"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/services"
)

// ServiceAPI adapts the in-process services to the TestRunAPI interface.
// Submitting saves the graph first, so the worker simulates exactly what
// the user sees in the editor, unsaved edits included.
type ServiceAPI struct {
	graphs *services.Graph
	runs   *services.TestRun
}

// NewServiceAPI creates an in-process TestRunAPI.
func NewServiceAPI(graphs *services.Graph, runs *services.TestRun) *ServiceAPI {
	return &ServiceAPI{graphs: graphs, runs: runs}
}

func (s *ServiceAPI) SubmitTestRun(ctx context.Context, graph *models.WorkflowGraph, leadID string) (string, error) {
	if _, err := s.graphs.Replace(ctx, graph); err != nil {
		return "", err
	}

	run, err := s.runs.Submit(ctx, graph.ID, leadID)
	if err != nil {
		return "", err
	}

	return run.ID, nil
}

func (s *ServiceAPI) GetTestRunStatus(ctx context.Context, workflowID, runID string) (*models.TestRun, error) {
	return s.runs.Status(ctx, workflowID, runID)
}

func (s *ServiceAPI) LoadLeadsForTesting(ctx context.Context, limit int) ([]*models.TestLead, error) {
	return s.runs.Leads(ctx, limit)
}
