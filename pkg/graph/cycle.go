// Package graph holds the editable workflow aggregate: the builder command
// interface, the connection validator, and the cycle detector behind it.
package graph

import "github.com/hatchboard/leadflow/pkg/models"

// WouldCreateCycle reports whether adding source→target to the graph would
// close a directed cycle. It searches backwards: a reverse adjacency map is
// built from the existing edges plus the candidate (target→source reversed),
// then a DFS from the candidate target looks for a path back to itself.
// Cost is proportional to the edges reachable from the target, which keeps
// interactive editing cheap at the expected graph sizes.
func WouldCreateCycle(g *models.WorkflowGraph, candidateSource, candidateTarget string) bool {
	reverse := make(map[string][]string, len(g.Nodes))
	for _, edge := range g.Edges {
		reverse[edge.TargetNodeID] = append(reverse[edge.TargetNodeID], edge.SourceNodeID)
	}

	reverse[candidateTarget] = append(reverse[candidateTarget], candidateSource)

	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(nodeID string) bool

	visit = func(nodeID string) bool {
		if onStack[nodeID] {
			return true
		}

		if visited[nodeID] {
			return false
		}

		visited[nodeID] = true
		onStack[nodeID] = true

		for _, prev := range reverse[nodeID] {
			if visit(prev) {
				return true
			}
		}

		onStack[nodeID] = false

		return false
	}

	return visit(candidateTarget)
}
