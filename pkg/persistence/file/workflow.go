package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
)

// WorkflowRepository stores one JSON document per workflow graph under
// <root>/workflows.
type WorkflowRepository struct {
	root string
}

// NewWorkflowRepository creates a workflow repository rooted at the given directory.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (r *WorkflowRepository) dir() string {
	return filepath.Join(r.root, "workflows")
}

func (r *WorkflowRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

// List returns every stored workflow graph sorted by name.
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.WorkflowGraph, error) {
	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil || len(jsonFiles) == 0 {
		return []*models.WorkflowGraph{}, nil
	}

	graphs := make([]*models.WorkflowGraph, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-len(".json")]

		graph, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		graphs = append(graphs, graph)
	}

	sort.Slice(graphs, func(i, j int) bool { return graphs[i].Name < graphs[j].Name })

	return graphs, nil
}

// GetByID loads a single workflow graph.
func (r *WorkflowRepository) GetByID(_ context.Context, id string) (*models.WorkflowGraph, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	var graph models.WorkflowGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("failed to decode workflow %s: %w", id, err)
	}

	return &graph, nil
}

// Save writes the full graph document, replacing any previous version.
func (r *WorkflowRepository) Save(_ context.Context, graph *models.WorkflowGraph) error {
	if err := os.MkdirAll(r.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workflow %s: %w", graph.ID, err)
	}

	if err := os.WriteFile(r.path(graph.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write workflow %s: %w", graph.ID, err)
	}

	return nil
}

// Delete removes the graph document.
func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	if err := os.Remove(r.path(id)); err != nil {
		if os.IsNotExist(err) {
			return persistence.ErrWorkflowNotFound
		}

		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}
