package graph

import (
	"fmt"

	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/models"
)

// ConnectionError is a structural rejection of a proposed edge. It carries a
// human-readable reason for display and leaves the graph untouched.
type ConnectionError struct {
	SourceNodeID string
	TargetNodeID string
	Reason       string
}

func (e *ConnectionError) Error() string {
	return e.Reason
}

func reject(source, target, reason string) *ConnectionError {
	return &ConnectionError{SourceNodeID: source, TargetNodeID: target, Reason: reason}
}

// classTargets lists, per source structural class, the classes an outgoing
// edge may point at. End never appears as a key: it has no outgoing edges.
// Triggers never appear in any value set: they accept no incoming edges.
var classTargets = map[models.StructuralClass]map[models.StructuralClass]bool{
	models.ClassTrigger:   flowTargets(),
	models.ClassAction:    flowTargets(),
	models.ClassCondition: flowTargets(),
	models.ClassDelay:     flowTargets(),
	models.ClassLoop:      flowTargets(),
}

func flowTargets() map[models.StructuralClass]bool {
	return map[models.StructuralClass]bool{
		models.ClassAction:    true,
		models.ClassCondition: true,
		models.ClassDelay:     true,
		models.ClassLoop:      true,
		models.ClassEnd:       true,
	}
}

// CanConnect decides whether an edge source→target may be added to the
// graph. Rules are evaluated in order; the first failing rule determines
// the rejection reason. A nil return means the edge is acceptable.
//
// Every proposed edge must pass through here, including programmatic and
// bulk edits such as template instantiation, not just interactive ones.
func CanConnect(g *models.WorkflowGraph, sourceID, targetID string) error {
	sourceNode, sourceOK := g.NodeByID(sourceID)
	targetNode, targetOK := g.NodeByID(targetID)

	if !sourceOK || !targetOK {
		return reject(sourceID, targetID, "invalid node reference")
	}

	if sourceID == targetID {
		return reject(sourceID, targetID, "self-loop")
	}

	if WouldCreateCycle(g, sourceID, targetID) {
		return reject(sourceID, targetID, "would create a cycle")
	}

	sourceClass := catalog.Class(sourceNode.Type)
	targetClass := catalog.Class(targetNode.Type)

	if !classTargets[sourceClass][targetClass] {
		return reject(sourceID, targetID, fmt.Sprintf("%s cannot connect to %s",
			catalog.Label(sourceNode.Type), catalog.Label(targetNode.Type)))
	}

	if sourceClass == models.ClassTrigger && len(g.OutgoingEdges(sourceID)) >= 1 {
		return reject(sourceID, targetID, "triggers may have exactly one successor")
	}

	if targetClass == models.ClassTrigger {
		return reject(sourceID, targetID, "triggers accept no incoming edges")
	}

	return nil
}
