// Package testutil provides test data builders shared across packages.
package testutil

import (
	"github.com/google/uuid"
	"github.com/hatchboard/leadflow/pkg/models"
)

// CreateTestNode creates a node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:        uuid.New().String(),
		Type:      models.NodeTypeActionAddTag,
		Name:      "Test Node",
		Config:    map[string]any{"tag": "test"},
		PositionX: 100,
		PositionY: 200,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithType sets the node type and clears the default config.
func WithType(t models.NodeType) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = t
		n.Config = map[string]any{}
	}
}

// WithConfig sets the node configuration.
func WithConfig(config map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Config = config
	}
}

// CreateTestGraph assembles a graph from prebuilt nodes and edges.
func CreateTestGraph(nodes []*models.Node, edges []*models.Edge) *models.WorkflowGraph {
	return &models.WorkflowGraph{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Description: "Workflow assembled for tests",
		Nodes:       nodes,
		Edges:       edges,
	}
}

// CreateTestEdge links two nodes.
func CreateTestEdge(sourceID, targetID string, config map[string]any) *models.Edge {
	return &models.Edge{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		Config:       config,
	}
}

// CreateTestLead creates a lead with the given score, suitable for
// condition branching tests.
func CreateTestLead(score float64) *models.TestLead {
	return &models.TestLead{
		ID:    uuid.New().String(),
		Name:  "Dana Example",
		Email: "dana@example.com",
		Stage: "qualified",
		Score: score,
		Tags:  []string{"newsletter"},
		Fields: map[string]any{
			"company": "Example Inc",
		},
	}
}
