package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/hatchboard/leadflow/pkg/channels/gochannel"
	"github.com/hatchboard/leadflow/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.TestRunRequested, 1)

	err := bus.Handle(events.TestRunRequestedEvent, func(_ context.Context, event any) error {
		requested, ok := event.(*events.TestRunRequested)
		require.True(t, ok)
		received <- requested

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	sent := events.TestRunRequested{
		BaseEvent: events.NewBaseEvent(events.TestRunRequestedEvent, "wf-1"),
		TestRunID: "run-1",
		LeadID:    "lead-1",
	}
	require.NoError(t, bus.Publish(t.Context(), "wf-1", sent))

	select {
	case got := <-received:
		assert.Equal(t, "wf-1", got.WorkflowID)
		assert.Equal(t, "run-1", got.TestRunID)
		assert.Equal(t, "lead-1", got.LeadID)
		assert.Equal(t, events.TestRunRequestedEvent, got.GetType())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledTypesAreDropped(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan struct{}, 1)

	err := bus.Handle(events.TestRunCompletedEvent, func(_ context.Context, _ any) error {
		received <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	// No handler registered for this type.
	started := events.TestRunStarted{
		BaseEvent: events.NewBaseEvent(events.TestRunStartedEvent, "wf-1"),
		TestRunID: "run-1",
	}
	require.NoError(t, bus.Publish(t.Context(), "wf-1", started))

	completed := events.TestRunCompleted{
		BaseEvent: events.NewBaseEvent(events.TestRunCompletedEvent, "wf-1"),
		TestRunID: "run-1",
	}
	require.NoError(t, bus.Publish(t.Context(), "wf-1", completed))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("handled event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
