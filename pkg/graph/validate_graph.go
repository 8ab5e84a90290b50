package graph

import (
	"fmt"

	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/models"
)

// ValidateGraph checks a whole graph the way interactive editing would
// have: unique node IDs, known node types, and every edge re-proposed
// through the connection validator in order. Bulk writes (imports, template
// instantiation, full saves) go through here so they cannot smuggle in an
// edge the editor would have rejected.
func ValidateGraph(g *models.WorkflowGraph) error {
	seen := make(map[string]bool, len(g.Nodes))

	for _, node := range g.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node of type %s has empty ID", node.Type)
		}

		if seen[node.ID] {
			return fmt.Errorf("duplicate node ID: %s", node.ID)
		}

		seen[node.ID] = true

		if !catalog.Known(node.Type) {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownNodeType, node.Type)
		}
	}

	// Replay edges one at a time against a partial graph so the
	// incremental rules (cycles, fan-in, fan-out) apply exactly as they
	// would during editing.
	partial := &models.WorkflowGraph{
		Nodes: g.Nodes,
		Edges: make([]*models.Edge, 0, len(g.Edges)),
	}

	for _, edge := range g.Edges {
		if err := CanConnect(partial, edge.SourceNodeID, edge.TargetNodeID); err != nil {
			return fmt.Errorf("edge %s: %w", edge.ID, err)
		}

		partial.Edges = append(partial.Edges, edge)
	}

	return nil
}
