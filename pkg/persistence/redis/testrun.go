// Package redis provides a redis-backed test-run store. Runs are short
// lived job records, so they live in redis with a TTL instead of the
// workflow store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const runTTL = 24 * time.Hour

// TestRunRepository implements persistence.TestRunRepository on redis.
type TestRunRepository struct {
	client *redis.Client
}

// NewTestRunRepository creates a repository from a redis URL
// (redis://host:port/db).
func NewTestRunRepository(redisURL string) (*TestRunRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return &TestRunRepository{client: redis.NewClient(opts)}, nil
}

func key(workflowID, runID string) string {
	return "leadflow:testrun:" + workflowID + ":" + runID
}

// GetByID loads a run record.
func (r *TestRunRepository) GetByID(ctx context.Context, workflowID, runID string) (*models.TestRun, error) {
	data, err := r.client.Get(ctx, key(workflowID, runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrTestRunNotFound
		}

		return nil, fmt.Errorf("failed to read test run %s: %w", runID, err)
	}

	var run models.TestRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode test run %s: %w", runID, err)
	}

	return &run, nil
}

// Save writes the run record with a TTL.
func (r *TestRunRepository) Save(ctx context.Context, run *models.TestRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode test run %s: %w", run.ID, err)
	}

	if err := r.client.Set(ctx, key(run.WorkflowID, run.ID), data, runTTL).Err(); err != nil {
		return fmt.Errorf("failed to write test run %s: %w", run.ID, err)
	}

	return nil
}

// Close releases the redis connection.
func (r *TestRunRepository) Close() error {
	return r.client.Close()
}
