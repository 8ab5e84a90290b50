// Package events defines event types for test-run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every test-run lifecycle event.
const Topic = "leadflow.testruns"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	TestRunRequestedEvent EventType = "testrun.requested"
	TestRunStartedEvent   EventType = "testrun.started"
	TestRunCompletedEvent EventType = "testrun.completed"
	TestRunFailedEvent    EventType = "testrun.failed"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
}

// NewBaseEvent stamps a fresh event envelope.
func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// TestRunRequested is published when a dry run is submitted; the worker
// picks it up and performs the simulation.
type TestRunRequested struct {
	BaseEvent

	TestRunID string `json:"test_run_id"`
	LeadID    string `json:"lead_id,omitempty"`
}

func (e TestRunRequested) GetType() EventType {
	return TestRunRequestedEvent
}

// TestRunStarted is published when a worker begins simulating a run.
type TestRunStarted struct {
	BaseEvent

	TestRunID string `json:"test_run_id"`
}

func (e TestRunStarted) GetType() EventType {
	return TestRunStartedEvent
}

// TestRunCompleted is published when a dry run reaches a successful
// terminal state.
type TestRunCompleted struct {
	BaseEvent

	TestRunID    string `json:"test_run_id"`
	VisitedNodes int    `json:"visited_nodes"`
	ActionsTaken int    `json:"actions_taken"`
}

func (e TestRunCompleted) GetType() EventType {
	return TestRunCompletedEvent
}

// TestRunFailed is published when a dry run fails, whether from a node
// evaluation error or an infrastructure fault.
type TestRunFailed struct {
	BaseEvent

	TestRunID string `json:"test_run_id"`
	Error     string `json:"error"`
}

func (e TestRunFailed) GetType() EventType {
	return TestRunFailedEvent
}
