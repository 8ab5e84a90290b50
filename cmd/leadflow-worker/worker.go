// Package main provides the dry-run worker: it subscribes to test run
// requests and simulates workflows against sample leads.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hatchboard/leadflow/pkg/eventbus"
	"github.com/hatchboard/leadflow/pkg/events"
	"github.com/hatchboard/leadflow/pkg/log"
	"github.com/hatchboard/leadflow/pkg/otelhelper"
	"github.com/hatchboard/leadflow/pkg/persistence"
	"github.com/hatchboard/leadflow/pkg/services"
	"github.com/hatchboard/leadflow/pkg/simulation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Worker struct {
	id       string
	eventBus eventbus.EventBus
	testRuns *services.TestRun
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewWorker(
	id string,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *Worker {
	tracer, err := otelhelper.NewTracer(context.Background(), "leadflow-worker")
	if err != nil {
		logger.Error("Failed to initialize tracer", "error", err)
		os.Exit(1)
	}

	executor := simulation.NewExecutor(log.WithModule("simulation"), tracer)
	testRuns := services.NewTestRun(p, eventBus, executor, logger)

	return &Worker{
		id:       id,
		eventBus: eventBus,
		testRuns: testRuns,
		logger:   logger,
		tracer:   tracer,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker subscriptions")

	if err := w.eventBus.Handle(events.TestRunRequestedEvent, w.handleTestRunRequested); err != nil {
		return err
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.eventBus.Subscribe(subCtx); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker")

	return nil
}

func (w *Worker) handleTestRunRequested(ctx context.Context, event any) error {
	requested, ok := event.(*events.TestRunRequested)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TestRunRequested")
		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "handleTestRunRequested",
		attribute.String(otelhelper.WorkflowIDKey, requested.WorkflowID),
		attribute.String(otelhelper.TestRunIDKey, requested.TestRunID),
	)
	defer span.End()

	w.logger.InfoContext(ctx, "Processing test run request",
		"workflow_id", requested.WorkflowID,
		"test_run_id", requested.TestRunID,
	)

	if err := w.testRuns.Execute(ctx, requested.WorkflowID, requested.TestRunID); err != nil {
		otelhelper.SetError(span, err)
		w.logger.ErrorContext(ctx, "Failed to execute test run",
			"workflow_id", requested.WorkflowID,
			"test_run_id", requested.TestRunID,
			"error", err,
		)

		return err
	}

	return nil
}
