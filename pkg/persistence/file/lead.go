package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
)

// LeadRepository reads the lead snapshots the test-lead selector is
// populated from. The file system is treated as read-only here; Seed exists
// for tests and local development.
type LeadRepository struct {
	root string
}

// NewLeadRepository creates a lead repository rooted at the given directory.
func NewLeadRepository(root string) *LeadRepository {
	return &LeadRepository{root: root}
}

func (r *LeadRepository) path() string {
	return filepath.Join(r.root, "leads.json")
}

// List returns up to limit leads.
func (r *LeadRepository) List(ctx context.Context, limit int) ([]*models.TestLead, error) {
	leads, err := r.load()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}

	return leads, nil
}

// GetByID returns a single lead snapshot.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*models.TestLead, error) {
	leads, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		if lead.ID == id {
			return lead, nil
		}
	}

	return nil, persistence.ErrLeadNotFound
}

// Seed writes the lead collection. Used by tests and local setup.
func (r *LeadRepository) Seed(leads []*models.TestLead) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode leads: %w", err)
	}

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("failed to create leads directory: %w", err)
	}

	if err := os.WriteFile(r.path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write leads: %w", err)
	}

	return nil
}

func (r *LeadRepository) load() ([]*models.TestLead, error) {
	data, err := os.ReadFile(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.TestLead{}, nil
		}

		return nil, fmt.Errorf("failed to read leads: %w", err)
	}

	var leads []*models.TestLead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}

	return leads, nil
}
