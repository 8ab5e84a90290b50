package graph

import (
	"math/rand"
	"testing"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AddNode(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	node, err := builder.AddNode(models.NodeTypeTriggerStageEntry, 10, 20)
	require.NoError(t, err)

	assert.NotEmpty(t, node.ID)
	assert.Equal(t, models.NodeTypeTriggerStageEntry, node.Type)
	assert.Equal(t, "Lead Enters Stage", node.Name)
	assert.NotNil(t, node.Config)
	assert.Empty(t, node.Config)
	assert.Equal(t, 10, node.PositionX)
	assert.Equal(t, 20, node.PositionY)
}

func TestBuilder_AddNode_UnknownType(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	_, err := builder.AddNode("action_teleport", 0, 0)
	assert.Error(t, err)
}

func TestBuilder_RemoveNode_CascadesEdges(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	trigger, err := builder.AddNode(models.NodeTypeTriggerManual, 0, 0)
	require.NoError(t, err)
	middle, err := builder.AddNode(models.NodeTypeActionAddTag, 0, 0)
	require.NoError(t, err)
	end, err := builder.AddNode(models.NodeTypeEnd, 0, 0)
	require.NoError(t, err)

	_, err = builder.Connect(trigger.ID, middle.ID, nil)
	require.NoError(t, err)
	_, err = builder.Connect(middle.ID, end.ID, nil)
	require.NoError(t, err)

	require.NoError(t, builder.RemoveNode(middle.ID))

	g := builder.Graph()
	assert.Len(t, g.Nodes, 2)
	assert.Empty(t, g.Edges, "edges incident to a removed node must go with it")
}

func TestBuilder_RemoveNode_Missing(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	err := builder.RemoveNode("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestBuilder_Connect_RejectionLeavesGraphUntouched(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	action, err := builder.AddNode(models.NodeTypeActionAddTag, 0, 0)
	require.NoError(t, err)
	trigger, err := builder.AddNode(models.NodeTypeTriggerManual, 0, 0)
	require.NoError(t, err)

	_, err = builder.Connect(action.ID, trigger.ID, nil)
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, action.ID, connErr.SourceNodeID)
	assert.Equal(t, trigger.ID, connErr.TargetNodeID)

	assert.Empty(t, builder.Graph().Edges)
}

func TestBuilder_UpdateNodeConfig_MergesPatch(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	node, err := builder.AddNode(models.NodeTypeCondition, 0, 0)
	require.NoError(t, err)

	err = builder.UpdateNodeConfig(node.ID, map[string]any{
		"field":    "score",
		"operator": ">",
		"value":    70,
	})
	require.NoError(t, err)

	err = builder.UpdateNodeConfig(node.ID, map[string]any{"value": 80})
	require.NoError(t, err)

	g := builder.Graph()
	updated, ok := g.NodeByID(node.ID)
	require.True(t, ok)
	assert.Equal(t, "score", updated.Config["field"])
	assert.Equal(t, 80, updated.Config["value"])
}

func TestBuilder_UpdateNodeConfig_InvalidPatchLeavesNodeUnchanged(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	node, err := builder.AddNode(models.NodeTypeCondition, 0, 0)
	require.NoError(t, err)

	require.NoError(t, builder.UpdateNodeConfig(node.ID, map[string]any{
		"field":    "score",
		"operator": ">",
		"value":    70,
	}))

	err = builder.UpdateNodeConfig(node.ID, map[string]any{"operator": "between"})
	require.Error(t, err)

	g := builder.Graph()
	unchanged, ok := g.NodeByID(node.ID)
	require.True(t, ok)
	assert.Equal(t, ">", unchanged.Config["operator"])
}

func TestBuilder_RemoveEdge(t *testing.T) {
	builder := NewBuilder("Onboarding", "")

	trigger, err := builder.AddNode(models.NodeTypeTriggerManual, 0, 0)
	require.NoError(t, err)
	action, err := builder.AddNode(models.NodeTypeActionAddTag, 0, 0)
	require.NoError(t, err)

	edge, err := builder.Connect(trigger.ID, action.ID, nil)
	require.NoError(t, err)

	require.NoError(t, builder.RemoveEdge(edge.ID))
	assert.Empty(t, builder.Graph().Edges)

	assert.ErrorIs(t, builder.RemoveEdge(edge.ID), ErrEdgeNotFound)
}

// TestBuilder_RandomEditingStaysAcyclic drives the builder with random
// connect attempts and checks that whatever it accepts never closes a
// cycle. Rejections along the way are expected and ignored.
func TestBuilder_RandomEditingStaysAcyclic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	types := []models.NodeType{
		models.NodeTypeActionAddTag,
		models.NodeTypeActionSendMessage,
		models.NodeTypeCondition,
		models.NodeTypeDelay,
		models.NodeTypeLoop,
		models.NodeTypeEnd,
	}

	for trial := 0; trial < 20; trial++ {
		builder := NewBuilder("Random", "")

		ids := make([]string, 0, 12)

		trigger, err := builder.AddNode(models.NodeTypeTriggerManual, 0, 0)
		require.NoError(t, err)
		ids = append(ids, trigger.ID)

		for i := 0; i < 11; i++ {
			node, err := builder.AddNode(types[rng.Intn(len(types))], 0, 0)
			require.NoError(t, err)
			ids = append(ids, node.ID)
		}

		for attempt := 0; attempt < 60; attempt++ {
			source := ids[rng.Intn(len(ids))]
			target := ids[rng.Intn(len(ids))]
			_, _ = builder.Connect(source, target, nil)
		}

		// Replaying every accepted edge through the validator proves the
		// result is acyclic and satisfies the cardinality rules.
		g := builder.Graph()
		require.NoError(t, ValidateGraph(g), "trial %d produced an invalid graph", trial)
	}
}
