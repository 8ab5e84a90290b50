package models

// Node represents a single step in a workflow graph.
type Node struct {
	ID        string         `json:"id"                    validate:"required"`
	Type      NodeType       `json:"type"                  validate:"required"`
	Name      string         `json:"name"`
	Config    map[string]any `json:"config"`
	PositionX int            `json:"position_x"` // Canvas coordinate, opaque to validation and execution
	PositionY int            `json:"position_y"`
}

// Edge represents a directed connection between two nodes. Config may carry
// a display label and, for condition/loop sources, a branch marker.
type Edge struct {
	ID           string         `json:"id"             validate:"required"`
	SourceNodeID string         `json:"source_node_id" validate:"required"`
	TargetNodeID string         `json:"target_node_id" validate:"required"`
	Config       map[string]any `json:"config,omitempty"`
}

// EdgeBranchKey is the edge config key condition and loop nodes use to
// select a successor ("true" or "false").
const EdgeBranchKey = "branch"

// Branch returns the branch marker of the edge, or "" when unset.
func (e *Edge) Branch() string {
	if e.Config == nil {
		return ""
	}

	branch, _ := e.Config[EdgeBranchKey].(string)

	return branch
}
