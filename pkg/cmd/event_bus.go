// Package cmd provides shared wiring helpers for the leadflow binaries.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/hatchboard/leadflow/pkg/channels/gochannel"
	"github.com/hatchboard/leadflow/pkg/channels/kafka"
	"github.com/hatchboard/leadflow/pkg/eventbus"
)

// NewEventBus creates an event bus for the given provider. "kafka" is the
// production channel; anything else falls back to the in-process channel,
// which only makes sense when API and worker share a process.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "leadflow")
		if err != nil {
			panic(fmt.Errorf("failed to create kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	default:
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create gochannel pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	}
}
