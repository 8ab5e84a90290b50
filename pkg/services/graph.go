package services

import (
	"context"
	"fmt"

	"github.com/hatchboard/leadflow/pkg/graph"
	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
)

// Graph is the editing service. Every mutation loads the aggregate, applies
// one builder command, and saves the result, so no change can bypass the
// connection validator.
type Graph struct {
	persistence persistence.Persistence
}

// NewGraph creates a new graph editing service.
func NewGraph(persistence persistence.Persistence) *Graph {
	return &Graph{persistence: persistence}
}

// HealthCheck checks the health of the persistence layer.
func (s *Graph) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "persistence layer is unhealthy: " + err.Error(), false
	}

	return "persistence layer is healthy", true
}

// Create builds and stores a fresh, empty workflow graph.
func (s *Graph) Create(ctx context.Context, name, description, owner string) (*models.WorkflowGraph, error) {
	if name == "" {
		return nil, ErrWorkflowNameRequired
	}

	builder := graph.NewBuilder(name, description)

	g := builder.Graph()
	g.Owner = owner

	if err := s.persistence.WorkflowRepository().Save(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return g, nil
}

// List returns every stored workflow graph.
func (s *Graph) List(ctx context.Context) ([]*models.WorkflowGraph, error) {
	return s.persistence.WorkflowRepository().List(ctx)
}

// FetchByID loads a single workflow graph.
func (s *Graph) FetchByID(ctx context.Context, id string) (*models.WorkflowGraph, error) {
	return s.persistence.WorkflowRepository().GetByID(ctx, id)
}

// Delete removes a workflow graph.
func (s *Graph) Delete(ctx context.Context, id string) error {
	return s.persistence.WorkflowRepository().Delete(ctx, id)
}

// Replace validates and stores a complete graph, replacing the stored node
// and edge collections. Bulk writes go through the same per-edge validation
// interactive editing does.
func (s *Graph) Replace(ctx context.Context, g *models.WorkflowGraph) (*models.WorkflowGraph, error) {
	if g == nil {
		return nil, ErrWorkflowNil
	}

	if g.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	if err := graph.ValidateGraph(g); err != nil {
		return nil, err
	}

	stored := g.Clone()
	if err := s.persistence.WorkflowRepository().Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return stored, nil
}

// AddNode appends a node of the given type and persists the graph.
func (s *Graph) AddNode(ctx context.Context, workflowID string, nodeType models.NodeType, x, y int) (*models.Node, error) {
	var node *models.Node

	err := s.mutate(ctx, workflowID, func(b *graph.Builder) error {
		var err error
		node, err = b.AddNode(nodeType, x, y)

		return err
	})
	if err != nil {
		return nil, err
	}

	return node, nil
}

// RemoveNode deletes a node and its incident edges.
func (s *Graph) RemoveNode(ctx context.Context, workflowID, nodeID string) error {
	return s.mutate(ctx, workflowID, func(b *graph.Builder) error {
		return b.RemoveNode(nodeID)
	})
}

// UpdateNodeConfig merges a config patch into a node.
func (s *Graph) UpdateNodeConfig(ctx context.Context, workflowID, nodeID string, patch map[string]any) error {
	return s.mutate(ctx, workflowID, func(b *graph.Builder) error {
		return b.UpdateNodeConfig(nodeID, patch)
	})
}

// Connect validates and adds an edge. On rejection the stored graph is
// untouched and the returned error carries the display reason.
func (s *Graph) Connect(ctx context.Context, workflowID, sourceID, targetID string, config map[string]any) (*models.Edge, error) {
	var edge *models.Edge

	err := s.mutate(ctx, workflowID, func(b *graph.Builder) error {
		var err error
		edge, err = b.Connect(sourceID, targetID, config)

		return err
	})
	if err != nil {
		return nil, err
	}

	return edge, nil
}

// RemoveEdge deletes a single edge.
func (s *Graph) RemoveEdge(ctx context.Context, workflowID, edgeID string) error {
	return s.mutate(ctx, workflowID, func(b *graph.Builder) error {
		return b.RemoveEdge(edgeID)
	})
}

func (s *Graph) mutate(ctx context.Context, workflowID string, command func(*graph.Builder) error) error {
	stored, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return err
	}

	builder := graph.FromGraph(stored)

	if err := command(builder); err != nil {
		return err
	}

	if err := s.persistence.WorkflowRepository().Save(ctx, builder.Graph()); err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflowID, err)
	}

	return nil
}
