package simulation

import (
	"log/slog"
	"os"
	"testing"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExecutor() *Executor {
	return NewExecutor(slog.New(slog.NewTextHandler(os.Stdout, nil)), nil)
}

func TestExecutor_Run_NoTrigger(t *testing.T) {
	action := testutil.CreateTestNode()
	g := testutil.CreateTestGraph([]*models.Node{action}, nil)

	result := testExecutor().Run(t.Context(), g, models.SyntheticLead())

	assert.False(t, result.Success)
	assert.Equal(t, models.ExecutionStatusFailed, result.State.Status)
	assert.Equal(t, ErrNoTriggerNode.Error(), result.Error)
	assert.Empty(t, result.State.VisitedNodes)
}

func TestExecutor_Run_LinearPath(t *testing.T) {
	trigger := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeTriggerStageEntry),
		testutil.WithConfig(map[string]any{"stage": "qualified"}),
	)
	tag := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "hot"}),
	)
	message := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionSendMessage),
		testutil.WithConfig(map[string]any{"channel": "email", "message": "welcome"}),
	)
	end := testutil.CreateTestNode(testutil.WithType(models.NodeTypeEnd))

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, tag, message, end},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, tag.ID, nil),
			testutil.CreateTestEdge(tag.ID, message.ID, nil),
			testutil.CreateTestEdge(message.ID, end.ID, nil),
		},
	)

	lead := testutil.CreateTestLead(80)
	result := testExecutor().Run(t.Context(), g, lead)

	require.True(t, result.Success)
	assert.Equal(t, models.ExecutionStatusCompleted, result.State.Status)
	assert.Equal(t, []string{trigger.ID, tag.ID, message.ID, end.ID}, result.State.VisitedNodes)
	assert.Equal(t, result.State.VisitedNodes, result.State.CompletedNodes)
	assert.Empty(t, result.State.SkippedNodes)

	require.Len(t, result.ActionsTaken, 2)
	assert.Equal(t, `would add tag "hot"`, result.ActionsTaken[0].Description)
	assert.Contains(t, result.ActionsTaken[1].Description, lead.Email)
}

func TestExecutor_Run_ConditionTrueBranch(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	condition := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeCondition),
		testutil.WithConfig(map[string]any{"field": "score", "operator": ">", "value": 70}),
	)
	hot := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "hot"}),
	)
	cold := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "cold"}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, condition, hot, cold},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, condition.ID, nil),
			testutil.CreateTestEdge(condition.ID, hot.ID, map[string]any{"branch": "true"}),
			testutil.CreateTestEdge(condition.ID, cold.ID, map[string]any{"branch": "false"}),
		},
	)

	result := testExecutor().Run(t.Context(), g, testutil.CreateTestLead(85))

	require.True(t, result.Success)
	assert.Contains(t, result.State.VisitedNodes, hot.ID)
	assert.NotContains(t, result.State.VisitedNodes, cold.ID)
	assert.Contains(t, result.State.SkippedNodes, cold.ID)

	require.Len(t, result.ActionsTaken, 1)
	assert.Equal(t, `would add tag "hot"`, result.ActionsTaken[0].Description)
}

// A linear graph where the condition's only successor is the true path: a
// false outcome ends the traversal and skips everything downstream.
func TestExecutor_Run_ConditionFalseLinearGraph(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	condition := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeCondition),
		testutil.WithConfig(map[string]any{"field": "score", "operator": ">", "value": 70}),
	)
	tag := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "hot"}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, condition, tag},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, condition.ID, nil),
			testutil.CreateTestEdge(condition.ID, tag.ID, nil),
		},
	)

	result := testExecutor().Run(t.Context(), g, testutil.CreateTestLead(40))

	require.True(t, result.Success)
	assert.Equal(t, []string{trigger.ID, condition.ID}, result.State.VisitedNodes)
	assert.Contains(t, result.State.SkippedNodes, tag.ID)
	assert.Empty(t, result.ActionsTaken)
}

func TestExecutor_Run_DelayDoesNotWait(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	delay := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeDelay),
		testutil.WithConfig(map[string]any{"delaySeconds": 86400}),
	)
	tag := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "followed-up"}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, delay, tag},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, delay.ID, nil),
			testutil.CreateTestEdge(delay.ID, tag.ID, nil),
		},
	)

	result := testExecutor().Run(t.Context(), g, models.SyntheticLead())

	require.True(t, result.Success)
	assert.Equal(t, []string{trigger.ID, delay.ID, tag.ID}, result.State.VisitedNodes)
	require.Len(t, result.ActionsTaken, 1)
}

func TestExecutor_Run_NodeErrorHaltsRun(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	condition := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeCondition),
		testutil.WithConfig(map[string]any{"field": "plan", "operator": "==", "value": "pro"}),
	)
	tag := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionAddTag),
		testutil.WithConfig(map[string]any{"tag": "pro-user"}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, condition, tag},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, condition.ID, nil),
			testutil.CreateTestEdge(condition.ID, tag.ID, nil),
		},
	)

	// Lead has no "plan" field: the condition cannot be evaluated.
	lead := &models.TestLead{ID: "lead-1", Email: "l@example.com", Score: 10}
	result := testExecutor().Run(t.Context(), g, lead)

	assert.False(t, result.Success)
	assert.Equal(t, models.ExecutionStatusFailed, result.State.Status)
	require.Len(t, result.State.Errors, 1)
	assert.Equal(t, condition.ID, result.State.Errors[0].NodeID)
	assert.NotContains(t, result.State.VisitedNodes, tag.ID)
	assert.Contains(t, result.Error, condition.ID)
}

func TestExecutor_Run_LoopVisitsBodyOnce(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	loop := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeLoop),
		testutil.WithConfig(map[string]any{"field": "score", "operator": "<", "value": 100, "maxIterations": 5}),
	)
	body := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionIncrementScore),
		testutil.WithConfig(map[string]any{"amount": 10}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, loop, body},
		[]*models.Edge{
			testutil.CreateTestEdge(trigger.ID, loop.ID, nil),
			testutil.CreateTestEdge(loop.ID, body.ID, map[string]any{"branch": "true"}),
		},
	)

	result := testExecutor().Run(t.Context(), g, testutil.CreateTestLead(50))

	require.True(t, result.Success)
	assert.Equal(t, []string{trigger.ID, loop.ID, body.ID}, result.State.VisitedNodes)
	require.Len(t, result.ActionsTaken, 1)
}

func TestExecutor_Run_ActionsHaveNoSideEffects(t *testing.T) {
	trigger := testutil.CreateTestNode(testutil.WithType(models.NodeTypeTriggerManual))
	stage := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeActionChangeStage),
		testutil.WithConfig(map[string]any{"stage": "customer"}),
	)

	g := testutil.CreateTestGraph(
		[]*models.Node{trigger, stage},
		[]*models.Edge{testutil.CreateTestEdge(trigger.ID, stage.ID, nil)},
	)

	lead := testutil.CreateTestLead(60)
	before := lead.Stage

	result := testExecutor().Run(t.Context(), g, lead)

	require.True(t, result.Success)
	assert.Equal(t, before, lead.Stage, "dry runs must not mutate the subject")
	require.Len(t, result.ActionsTaken, 1)
	assert.Equal(t, `would move lead to stage "customer"`, result.ActionsTaken[0].Description)
}
