package graph

import (
	"testing"

	"github.com/hatchboard/leadflow/pkg/models"
	"github.com/hatchboard/leadflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func chainGraph(t *testing.T, types ...models.NodeType) *models.WorkflowGraph {
	t.Helper()

	nodes := make([]*models.Node, 0, len(types))
	for _, nodeType := range types {
		nodes = append(nodes, testutil.CreateTestNode(testutil.WithType(nodeType)))
	}

	edges := make([]*models.Edge, 0, len(types)-1)
	for i := 0; i < len(nodes)-1; i++ {
		edges = append(edges, testutil.CreateTestEdge(nodes[i].ID, nodes[i+1].ID, nil))
	}

	return testutil.CreateTestGraph(nodes, edges)
}

func TestWouldCreateCycle_DirectBackEdge(t *testing.T) {
	g := chainGraph(t, models.NodeTypeActionAddTag, models.NodeTypeActionRemoveTag)

	assert.True(t, WouldCreateCycle(g, g.Nodes[1].ID, g.Nodes[0].ID))
}

func TestWouldCreateCycle_LongPath(t *testing.T) {
	g := chainGraph(t,
		models.NodeTypeActionAddTag,
		models.NodeTypeCondition,
		models.NodeTypeDelay,
		models.NodeTypeActionSendMessage,
	)

	// Closing D -> A would create A -> B -> C -> D -> A.
	assert.True(t, WouldCreateCycle(g, g.Nodes[3].ID, g.Nodes[0].ID))
}

func TestWouldCreateCycle_ForwardEdgeIsFine(t *testing.T) {
	g := chainGraph(t,
		models.NodeTypeActionAddTag,
		models.NodeTypeCondition,
		models.NodeTypeDelay,
	)

	// A -> C alongside A -> B -> C is a diamond, not a cycle.
	assert.False(t, WouldCreateCycle(g, g.Nodes[0].ID, g.Nodes[2].ID))
}

func TestWouldCreateCycle_DisconnectedComponents(t *testing.T) {
	a := testutil.CreateTestNode()
	b := testutil.CreateTestNode()
	c := testutil.CreateTestNode()
	g := testutil.CreateTestGraph(
		[]*models.Node{a, b, c},
		[]*models.Edge{testutil.CreateTestEdge(a.ID, b.ID, nil)},
	)

	assert.False(t, WouldCreateCycle(g, b.ID, c.ID))
}

func TestWouldCreateCycle_SelfLoop(t *testing.T) {
	a := testutil.CreateTestNode()
	g := testutil.CreateTestGraph([]*models.Node{a}, nil)

	assert.True(t, WouldCreateCycle(g, a.ID, a.ID))
}
