package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/models"
)

var (
	// ErrNodeNotFound is returned when a command references a node absent
	// from the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when a command references an edge absent
	// from the graph.
	ErrEdgeNotFound = errors.New("edge not found")
)

// Builder owns a WorkflowGraph aggregate and is the only way to mutate it.
// Every edge addition goes through the connection validator, so any graph a
// builder has produced is acyclic and satisfies the cardinality rules. Not
// safe for concurrent use; editing is single-writer.
type Builder struct {
	graph *models.WorkflowGraph
}

// NewBuilder creates a builder around a fresh, empty graph.
func NewBuilder(name, description string) *Builder {
	now := time.Now().UTC()

	return &Builder{
		graph: &models.WorkflowGraph{
			ID:          uuid.New().String(),
			Name:        name,
			Description: description,
			Nodes:       []*models.Node{},
			Edges:       []*models.Edge{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// FromGraph wraps a loaded graph in a builder. The builder takes ownership
// of a deep copy, so the caller's graph stays untouched.
func FromGraph(g *models.WorkflowGraph) *Builder {
	return &Builder{graph: g.Clone()}
}

// Graph returns a deep copy of the current aggregate, suitable for saving
// or submitting to a test run.
func (b *Builder) Graph() *models.WorkflowGraph {
	return b.graph.Clone()
}

// AddNode appends a node of the given type at the given canvas position.
// Config starts empty; the node name defaults to the catalog label.
func (b *Builder) AddNode(t models.NodeType, x, y int) (*models.Node, error) {
	if !catalog.Known(t) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownNodeType, t)
	}

	node := &models.Node{
		ID:        uuid.New().String(),
		Type:      t,
		Name:      catalog.Label(t),
		Config:    map[string]any{},
		PositionX: x,
		PositionY: y,
	}

	b.graph.Nodes = append(b.graph.Nodes, node)
	b.touch()

	return cloneNode(node), nil
}

// RemoveNode deletes the node and every edge incident to it. No dangling
// edge is ever observable.
func (b *Builder) RemoveNode(id string) error {
	if _, ok := b.graph.NodeByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	nodes := b.graph.Nodes[:0]
	for _, node := range b.graph.Nodes {
		if node.ID != id {
			nodes = append(nodes, node)
		}
	}

	b.graph.Nodes = nodes

	edges := b.graph.Edges[:0]
	for _, edge := range b.graph.Edges {
		if edge.SourceNodeID != id && edge.TargetNodeID != id {
			edges = append(edges, edge)
		}
	}

	b.graph.Edges = edges
	b.touch()

	return nil
}

// UpdateNodeConfig merges the patch into the node's config and validates
// the result against the type's schema. On a validation failure the node
// is left unchanged.
func (b *Builder) UpdateNodeConfig(id string, patch map[string]any) error {
	node, ok := b.graph.NodeByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	merged := make(map[string]any, len(node.Config)+len(patch))
	for k, v := range node.Config {
		merged[k] = v
	}

	for k, v := range patch {
		merged[k] = v
	}

	if err := catalog.ValidateConfig(node.Type, merged); err != nil {
		return err
	}

	node.Config = merged
	b.touch()

	return nil
}

// Connect validates the proposed edge and, when accepted, adds it. The
// returned error on rejection is a *ConnectionError whose reason is safe to
// display; the graph is unchanged in that case.
func (b *Builder) Connect(sourceID, targetID string, config map[string]any) (*models.Edge, error) {
	if err := CanConnect(b.graph, sourceID, targetID); err != nil {
		return nil, err
	}

	edge := &models.Edge{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		Config:       config,
	}

	b.graph.Edges = append(b.graph.Edges, edge)
	b.touch()

	return cloneEdge(edge), nil
}

// RemoveEdge deletes a single edge.
func (b *Builder) RemoveEdge(id string) error {
	for i, edge := range b.graph.Edges {
		if edge.ID == id {
			b.graph.Edges = append(b.graph.Edges[:i], b.graph.Edges[i+1:]...)
			b.touch()

			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
}

func (b *Builder) touch() {
	b.graph.UpdatedAt = time.Now().UTC()
}

func cloneNode(n *models.Node) *models.Node {
	clone := *n

	if n.Config != nil {
		clone.Config = make(map[string]any, len(n.Config))
		for k, v := range n.Config {
			clone.Config[k] = v
		}
	}

	return &clone
}

func cloneEdge(e *models.Edge) *models.Edge {
	clone := *e

	if e.Config != nil {
		clone.Config = make(map[string]any, len(e.Config))
		for k, v := range e.Config {
			clone.Config[k] = v
		}
	}

	return &clone
}
