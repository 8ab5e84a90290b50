// Package persistence provides the storage abstraction for workflow graphs,
// test-run jobs, and the read-only lead lookup.
package persistence

import (
	"context"

	"github.com/hatchboard/leadflow/pkg/models"
)

// Persistence aggregates the repositories a deployment wires together.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	TestRunRepository() TestRunRepository
	LeadRepository() LeadRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow graphs. Save always replaces the full
// node/edge collection for the graph's ID.
type WorkflowRepository interface {
	List(ctx context.Context) ([]*models.WorkflowGraph, error)
	GetByID(ctx context.Context, id string) (*models.WorkflowGraph, error)
	Save(ctx context.Context, graph *models.WorkflowGraph) error
	Delete(ctx context.Context, id string) error
}

// TestRunRepository tracks asynchronous dry-run jobs.
type TestRunRepository interface {
	GetByID(ctx context.Context, workflowID, runID string) (*models.TestRun, error)
	Save(ctx context.Context, run *models.TestRun) error
}

// LeadRepository is the read-only lookup the "simulate as this lead"
// selector is populated from.
type LeadRepository interface {
	List(ctx context.Context, limit int) ([]*models.TestLead, error)
	GetByID(ctx context.Context, id string) (*models.TestLead, error)
}

type override struct {
	Persistence

	runs TestRunRepository
}

func (o *override) TestRunRepository() TestRunRepository {
	return o.runs
}

// WithTestRunRepository overlays a different test-run store (typically
// redis) on an existing persistence stack.
func WithTestRunRepository(base Persistence, runs TestRunRepository) Persistence {
	return &override{Persistence: base, runs: runs}
}
