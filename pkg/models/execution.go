package models

import "time"

// ExecutionStatus is the state of a (simulated) graph traversal.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusPaused    ExecutionStatus = "paused"
)

// NodeError records a node whose config evaluation failed during a run.
type NodeError struct {
	NodeID string `json:"node_id"`
	Error  string `json:"error"`
}

// ExecutionState is the per-node trace of a dry run. VisitedNodes is the
// ordered execution path; a node appears at most once because accepted
// graphs are acyclic. Every visited node ends up completed, errored, or
// skipped.
type ExecutionState struct {
	VisitedNodes   []string        `json:"visited_nodes"`
	CompletedNodes []string        `json:"completed_nodes"`
	SkippedNodes   []string        `json:"skipped_nodes"`
	Errors         []NodeError     `json:"errors,omitempty"`
	Status         ExecutionStatus `json:"status"`
}

// MarkVisited appends the node to the execution path.
func (s *ExecutionState) MarkVisited(nodeID string) {
	s.VisitedNodes = append(s.VisitedNodes, nodeID)
}

// MarkCompleted records the node as successfully evaluated.
func (s *ExecutionState) MarkCompleted(nodeID string) {
	s.CompletedNodes = append(s.CompletedNodes, nodeID)
}

// MarkSkipped records a node bypassed by condition logic. Skipped nodes are
// not part of the execution path.
func (s *ExecutionState) MarkSkipped(nodeID string) {
	s.SkippedNodes = append(s.SkippedNodes, nodeID)
}

// AddError records a node failure.
func (s *ExecutionState) AddError(nodeID string, err error) {
	s.Errors = append(s.Errors, NodeError{NodeID: nodeID, Error: err.Error()})
}

// Visited reports whether the node is already on the execution path.
func (s *ExecutionState) Visited(nodeID string) bool {
	return containsString(s.VisitedNodes, nodeID)
}

// Skipped reports whether the node was bypassed.
func (s *ExecutionState) Skipped(nodeID string) bool {
	return containsString(s.SkippedNodes, nodeID)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}

	return false
}

// ActionRecord describes an action a live run would have performed. Dry runs
// append these instead of producing side effects.
type ActionRecord struct {
	Type        NodeType       `json:"type"`
	NodeID      string         `json:"node_id"`
	Config      map[string]any `json:"config,omitempty"`
	Description string         `json:"description,omitempty"`
}

// TestResult is the terminal payload of a dry run. Ephemeral: displayed to
// the user and discarded, never persisted with the graph.
type TestResult struct {
	Success      bool           `json:"success"`
	State        ExecutionState `json:"state"`
	ActionsTaken []ActionRecord `json:"actions_taken"`
	Error        string         `json:"error,omitempty"`
}

// TestRunStatus is the lifecycle state of an asynchronous test-run job.
type TestRunStatus string

const (
	TestRunStatusPending   TestRunStatus = "pending"
	TestRunStatusRunning   TestRunStatus = "running"
	TestRunStatusCompleted TestRunStatus = "completed"
	TestRunStatusFailed    TestRunStatus = "failed"
)

// Terminal reports whether the run reached a final state.
func (s TestRunStatus) Terminal() bool {
	return s == TestRunStatusCompleted || s == TestRunStatusFailed
}

// TestRun is the job record a submitted dry run is tracked by. Result is
// present only once the status is terminal.
type TestRun struct {
	ID         string        `json:"id"`
	WorkflowID string        `json:"workflow_id"`
	LeadID     string        `json:"lead_id,omitempty"`
	Status     TestRunStatus `json:"status"`
	Result     *TestResult   `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}
