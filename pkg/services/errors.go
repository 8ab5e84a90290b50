// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"

	"github.com/hatchboard/leadflow/pkg/graph"
	"github.com/hatchboard/leadflow/pkg/persistence"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrWorkflowNil          = errors.New("workflow cannot be nil")
	ErrTriggerNodeRequired  = errors.New("workflow must have at least one trigger node")
	ErrRunNotTerminal       = errors.New("test run has not finished")

	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound
	ErrTestRunNotFound  = persistence.ErrTestRunNotFound
)

// IsValidationError checks if an error is a validation error that should
// return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrTriggerNodeRequired)
}

// IsConnectionRejection checks if an error is a structural rejection of a
// proposed edge. Rejections are expected editor feedback, not faults.
func IsConnectionRejection(err error) bool {
	var connErr *graph.ConnectionError

	return errors.As(err, &connErr)
}
