package models

import "time"

// WorkflowGraph is the root aggregate for an automation: the full set of
// nodes and edges a user assembled in the builder. A save always replaces
// the whole node/edge collection for its ID; the graph is never partially
// persisted.
type WorkflowGraph struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"        validate:"required,min=3"`
	Description string    `json:"description"`
	Nodes       []*Node   `json:"nodes"`
	Edges       []*Edge   `json:"edges"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NodeByID returns the node with the given ID, if present.
func (g *WorkflowGraph) NodeByID(id string) (*Node, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// EdgeByID returns the edge with the given ID, if present.
func (g *WorkflowGraph) EdgeByID(id string) (*Edge, bool) {
	for _, edge := range g.Edges {
		if edge.ID == id {
			return edge, true
		}
	}

	return nil, false
}

// OutgoingEdges returns every edge whose source is the given node.
func (g *WorkflowGraph) OutgoingEdges(nodeID string) []*Edge {
	var edges []*Edge

	for _, edge := range g.Edges {
		if edge.SourceNodeID == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// IncomingEdges returns every edge whose target is the given node.
func (g *WorkflowGraph) IncomingEdges(nodeID string) []*Edge {
	var edges []*Edge

	for _, edge := range g.Edges {
		if edge.TargetNodeID == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// Clone returns a deep copy of the graph. Builders hand out clones so the
// aggregate is never mutated behind the validator's back.
func (g *WorkflowGraph) Clone() *WorkflowGraph {
	clone := *g

	clone.Nodes = make([]*Node, len(g.Nodes))
	for i, node := range g.Nodes {
		nodeCopy := *node
		nodeCopy.Config = cloneMap(node.Config)
		clone.Nodes[i] = &nodeCopy
	}

	clone.Edges = make([]*Edge, len(g.Edges))
	for i, edge := range g.Edges {
		edgeCopy := *edge
		edgeCopy.Config = cloneMap(edge.Config)
		clone.Edges[i] = &edgeCopy
	}

	return &clone
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
