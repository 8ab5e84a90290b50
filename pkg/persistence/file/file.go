// Package file provides file-based persistence for workflow graphs, test
// runs, and leads. Suitable for development and tests; each record is one
// JSON document under the root directory.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/hatchboard/leadflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root         string
	workflowRepo *WorkflowRepository
	testRunRepo  *TestRunRepository
	leadRepo     *LeadRepository
}

// NewPersistence creates a file persistence stack rooted at the given
// directory. A "file://" prefix is tolerated so database URLs can be passed
// through unchanged.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		workflowRepo: NewWorkflowRepository(cleanRoot),
		testRunRepo:  NewTestRunRepository(cleanRoot),
		leadRepo:     NewLeadRepository(cleanRoot),
	}
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) TestRunRepository() persistence.TestRunRepository {
	return p.testRunRepo
}

func (p *Persistence) LeadRepository() persistence.LeadRepository {
	return p.leadRepo
}
