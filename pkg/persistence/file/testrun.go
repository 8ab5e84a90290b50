package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
)

// TestRunRepository stores one JSON document per test run under
// <root>/testruns, keyed by workflow and run ID.
type TestRunRepository struct {
	root string
}

// NewTestRunRepository creates a test-run repository rooted at the given directory.
func NewTestRunRepository(root string) *TestRunRepository {
	return &TestRunRepository{root: root}
}

func (r *TestRunRepository) path(workflowID, runID string) string {
	return filepath.Join(r.root, "testruns", workflowID+"-"+runID+".json")
}

// GetByID loads a single test run.
func (r *TestRunRepository) GetByID(_ context.Context, workflowID, runID string) (*models.TestRun, error) {
	data, err := os.ReadFile(r.path(workflowID, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrTestRunNotFound
		}

		return nil, fmt.Errorf("failed to read test run %s: %w", runID, err)
	}

	var run models.TestRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode test run %s: %w", runID, err)
	}

	return &run, nil
}

// Save writes the run document, replacing any previous version.
func (r *TestRunRepository) Save(_ context.Context, run *models.TestRun) error {
	dir := filepath.Join(r.root, "testruns")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create testruns directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode test run %s: %w", run.ID, err)
	}

	if err := os.WriteFile(r.path(run.WorkflowID, run.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write test run %s: %w", run.ID, err)
	}

	return nil
}
