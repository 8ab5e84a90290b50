// Package persistence provides standardized error types for storage operations.
package persistence

import "errors"

var (
	// ErrWorkflowNotFound indicates a workflow graph was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrTestRunNotFound indicates a test run was not found by the given identifier.
	ErrTestRunNotFound = errors.New("test run not found")

	// ErrLeadNotFound indicates a lead was not found by the given identifier.
	ErrLeadNotFound = errors.New("lead not found")
)

// IsWorkflowNotFound checks if an error indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsTestRunNotFound checks if an error indicates a missing test run.
func IsTestRunNotFound(err error) bool {
	return errors.Is(err, ErrTestRunNotFound)
}

// IsLeadNotFound checks if an error indicates a missing lead.
func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}
