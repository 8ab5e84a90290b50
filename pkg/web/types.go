// Package web provides the HTTP surface of the graph engine: editing
// commands, test-run submission, and polling.
package web

import "github.com/hatchboard/leadflow/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow graph.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	Owner       string `json:"owner"       validate:"required"`
}

// ReplaceWorkflowRequest carries a full graph for a save. The node and edge
// collections replace the stored ones wholesale.
type ReplaceWorkflowRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Nodes       []*models.Node `json:"nodes"`
	Edges       []*models.Edge `json:"edges"`
}

// AddNodeRequest represents the request body for adding a node to a graph.
type AddNodeRequest struct {
	Type      models.NodeType `json:"type"       validate:"required"`
	PositionX int             `json:"position_x"`
	PositionY int             `json:"position_y"`
}

// UpdateNodeConfigRequest carries a config patch for a node.
type UpdateNodeConfigRequest struct {
	Config map[string]any `json:"config" validate:"required"`
}

// ConnectRequest represents the request body for proposing an edge.
type ConnectRequest struct {
	SourceNodeID string         `json:"source_node_id" validate:"required"`
	TargetNodeID string         `json:"target_node_id" validate:"required"`
	Config       map[string]any `json:"config,omitempty"`
}

// SubmitTestRunRequest represents the request body for starting a dry run.
// LeadID is optional; empty means the synthetic subject.
type SubmitTestRunRequest struct {
	LeadID string `json:"lead_id,omitempty"`
}

// NodeTypeResponse describes one catalog entry for the editor palette.
type NodeTypeResponse struct {
	Type   models.NodeType        `json:"type"`
	Class  models.StructuralClass `json:"class"`
	Label  string                 `json:"label"`
	Schema map[string]any         `json:"config_schema,omitempty"`
}
