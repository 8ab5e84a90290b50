package cmd

import (
	"fmt"

	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/hatchboard/leadflow/pkg/persistence/file"
	"github.com/hatchboard/leadflow/pkg/persistence/redis"
)

// NewPersistence builds the persistence stack. Graphs and leads live on
// the file store at databaseURL; when redisURL is set, test runs move to
// redis so API and worker instances share job state.
func NewPersistence(databaseURL, redisURL string) persistence.Persistence {
	base := file.NewPersistence(databaseURL)

	if redisURL == "" {
		return base
	}

	runs, err := redis.NewTestRunRepository(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to create redis test run store: %w", err))
	}

	return persistence.WithTestRunRepository(base, runs)
}
