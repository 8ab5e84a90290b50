package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hatchboard/leadflow/pkg/catalog"
	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrNoTriggerNode is reported when a graph has no entry point to start a
// dry run from.
var ErrNoTriggerNode = errors.New("workflow has no trigger node")

// Executor walks a workflow graph against a simulation subject. It mutates
// nothing outside the returned TestResult: action nodes append a
// descriptive record instead of performing their operation.
type Executor struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	conditions *ConditionEvaluator
}

// NewExecutor creates a dry-run executor. A nil tracer disables tracing.
func NewExecutor(logger *slog.Logger, tracer trace.Tracer) *Executor {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("simulation")
	}

	return &Executor{
		logger:     logger,
		tracer:     tracer,
		conditions: NewConditionEvaluator(),
	}
}

// Run traverses the graph from its entry trigger and returns the execution
// trace. Traversal is deterministic: single successors are followed in
// insertion order, condition and loop nodes pick a branch by evaluating
// their config against the subject. A node whose evaluation fails is
// recorded in the trace errors and halts the run.
//
// Accepted graphs are acyclic, so no node is ever visited twice; a revisit
// guard remains as a hard stop against corrupted input.
func (e *Executor) Run(ctx context.Context, g *models.WorkflowGraph, lead *models.TestLead) *models.TestResult {
	logger := e.logger.With("workflow_id", g.ID, "lead_id", lead.ID)
	logger.Info("starting dry run")

	result := &models.TestResult{
		ActionsTaken: []models.ActionRecord{},
		State: models.ExecutionState{
			VisitedNodes:   []string{},
			CompletedNodes: []string{},
			SkippedNodes:   []string{},
			Status:         models.ExecutionStatusRunning,
		},
	}

	entry := findEntryTrigger(g)
	if entry == nil {
		result.State.Status = models.ExecutionStatusFailed
		result.Error = ErrNoTriggerNode.Error()

		return result
	}

	env := lead.Env()
	current := entry.ID

	for current != "" {
		node, ok := g.NodeByID(current)
		if !ok {
			result.State.Status = models.ExecutionStatusFailed
			result.Error = fmt.Sprintf("node %s not found in workflow %s", current, g.ID)

			break
		}

		if result.State.Visited(node.ID) {
			break
		}

		_, span := otelhelper.StartSpan(ctx, e.tracer, "simulation.node",
			attribute.String(otelhelper.WorkflowIDKey, g.ID),
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
		)

		result.State.MarkVisited(node.ID)

		next, err := e.executeNode(g, node, lead, env, result)
		if err != nil {
			logger.Warn("node evaluation failed", "node_id", node.ID, "error", err)
			result.State.AddError(node.ID, err)
			result.State.Status = models.ExecutionStatusFailed
			otelhelper.SetError(span, err)
			span.End()

			break
		}

		result.State.MarkCompleted(node.ID)
		span.End()

		current = next
	}

	if result.State.Status == models.ExecutionStatusRunning {
		result.State.Status = models.ExecutionStatusCompleted
	}

	result.Success = result.State.Status == models.ExecutionStatusCompleted
	if !result.Success && result.Error == "" && len(result.State.Errors) > 0 {
		last := result.State.Errors[len(result.State.Errors)-1]
		result.Error = fmt.Sprintf("node %s: %s", last.NodeID, last.Error)
	}

	logger.Info("dry run finished",
		"status", result.State.Status,
		"visited", len(result.State.VisitedNodes),
		"actions", len(result.ActionsTaken))

	return result
}

// executeNode evaluates one node and returns the ID of the next node, or ""
// when traversal ends.
func (e *Executor) executeNode(g *models.WorkflowGraph, node *models.Node, lead *models.TestLead, env map[string]any, result *models.TestResult) (string, error) {
	switch catalog.Class(node.Type) {
	case models.ClassTrigger:
		return singleNext(g, node.ID), nil

	case models.ClassAction:
		result.ActionsTaken = append(result.ActionsTaken, models.ActionRecord{
			Type:        node.Type,
			NodeID:      node.ID,
			Config:      node.Config,
			Description: describeAction(node, lead),
		})

		return singleNext(g, node.ID), nil

	case models.ClassCondition:
		cfg, err := decodeCondition(node.Config)
		if err != nil {
			return "", err
		}

		outcome, err := e.conditions.Evaluate(cfg, env)
		if err != nil {
			return "", err
		}

		return chooseBranch(g, &result.State, node.ID, outcome), nil

	case models.ClassLoop:
		cfg, err := decodeLoop(node.Config)
		if err != nil {
			return "", err
		}

		// A dry run visits the loop body at most once; the loop condition
		// only selects which successor the trace follows.
		outcome, err := e.conditions.Evaluate(cfg.ConditionConfig, env)
		if err != nil {
			return "", err
		}

		return chooseBranch(g, &result.State, node.ID, outcome), nil

	case models.ClassDelay:
		// Decoded for validity only; a dry run does not wait.
		if _, err := decodeDelay(node.Config); err != nil {
			return "", err
		}

		return singleNext(g, node.ID), nil

	case models.ClassEnd:
		return "", nil

	default:
		return "", fmt.Errorf("unknown node type: %s", node.Type)
	}
}

// findEntryTrigger returns the first trigger node in insertion order.
func findEntryTrigger(g *models.WorkflowGraph) *models.Node {
	for _, node := range g.Nodes {
		if catalog.Class(node.Type) == models.ClassTrigger {
			return node
		}
	}

	return nil
}

// singleNext follows the node's outgoing edge. Nodes with several outgoing
// edges follow the first in insertion order, which keeps traversal
// deterministic.
func singleNext(g *models.WorkflowGraph, nodeID string) string {
	edges := g.OutgoingEdges(nodeID)
	if len(edges) == 0 {
		return ""
	}

	return edges[0].TargetNodeID
}

// chooseBranch picks the successor matching the condition outcome and marks
// the nodes only reachable through the untaken branch as skipped. Edges
// labeled with a branch marker bind to that outcome; unlabeled edges count
// as the true path.
func chooseBranch(g *models.WorkflowGraph, state *models.ExecutionState, nodeID string, outcome bool) string {
	wanted := "false"
	if outcome {
		wanted = "true"
	}

	var taken *models.Edge

	edges := g.OutgoingEdges(nodeID)
	for _, edge := range edges {
		branch := edge.Branch()
		if branch == wanted || (branch == "" && outcome) {
			taken = edge

			break
		}
	}

	var untakenTargets []string

	for _, edge := range edges {
		if taken == nil || edge.ID != taken.ID {
			untakenTargets = append(untakenTargets, edge.TargetNodeID)
		}
	}

	skipCandidates := reachableFrom(g, untakenTargets)

	var takenReach map[string]bool
	if taken != nil {
		takenReach = reachableFrom(g, []string{taken.TargetNodeID})
	}

	for _, node := range g.Nodes {
		if !skipCandidates[node.ID] || takenReach[node.ID] {
			continue
		}

		if state.Visited(node.ID) || state.Skipped(node.ID) {
			continue
		}

		state.MarkSkipped(node.ID)
	}

	if taken == nil {
		return ""
	}

	return taken.TargetNodeID
}

// reachableFrom returns every node reachable from the given start nodes via
// forward edges, including the start nodes themselves.
func reachableFrom(g *models.WorkflowGraph, startIDs []string) map[string]bool {
	reached := make(map[string]bool, len(startIDs))
	queue := append([]string{}, startIDs...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if reached[id] {
			continue
		}

		reached[id] = true

		for _, edge := range g.OutgoingEdges(id) {
			queue = append(queue, edge.TargetNodeID)
		}
	}

	return reached
}

func describeAction(node *models.Node, lead *models.TestLead) string {
	cfg := node.Config

	switch node.Type {
	case models.NodeTypeActionSendMessage:
		channel, _ := cfg["channel"].(string)
		if channel == "" {
			channel = "email"
		}

		return fmt.Sprintf("would send %s message to %s", channel, lead.Email)
	case models.NodeTypeActionAddTag:
		return fmt.Sprintf("would add tag %q", cfg["tag"])
	case models.NodeTypeActionRemoveTag:
		return fmt.Sprintf("would remove tag %q", cfg["tag"])
	case models.NodeTypeActionAssignUser:
		return fmt.Sprintf("would assign lead to user %v", cfg["userId"])
	case models.NodeTypeActionChangeStage:
		return fmt.Sprintf("would move lead to stage %q", cfg["stage"])
	case models.NodeTypeActionUpdateField:
		return fmt.Sprintf("would set field %q to %v", cfg["field"], cfg["value"])
	case models.NodeTypeActionIncrementScore:
		return fmt.Sprintf("would increase score by %v", cfg["amount"])
	case models.NodeTypeActionDecrementScore:
		return fmt.Sprintf("would decrease score by %v", cfg["amount"])
	case models.NodeTypeActionSendWebhook:
		return fmt.Sprintf("would call webhook %v", cfg["url"])
	case models.NodeTypeActionAddToAudience:
		return fmt.Sprintf("would add lead to audience %v", cfg["audienceId"])
	case models.NodeTypeActionRemoveFromAudience:
		return fmt.Sprintf("would remove lead from audience %v", cfg["audienceId"])
	default:
		return "would execute " + catalog.Label(node.Type)
	}
}
