package domain_test

import (
	"testing"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func halfButterfly() *domain.Sequence {
	return &domain.Sequence{
		ID:   "hb",
		Name: "Half-Butterfly",
		Nodes: []domain.Node{
			{ID: "N1", Label: "Entry"},
			{ID: "HUB", Label: "Half-Butterfly Hub (top)", IsHub: true},
			{ID: "B1", Label: "Chest-to-chest"},
			{ID: "SIDE", Label: "Side control"},
		},
		Edges: []domain.Edge{
			{FromID: "HUB", ToID: "B1", OpponentReaction: "Frames", MyResponse: "**Underhook** nearside"},
			{FromID: "N1", ToID: "HUB", OpponentReaction: "Sits up", MyResponse: "Drop to hub"},
			{FromID: "HUB", ToID: "SIDE", OpponentReaction: "Turns away", MyResponse: "Pass"},
			{FromID: "B1", ToID: "SIDE", OpponentReaction: "Flattens", MyResponse: "Slide knee"},
		},
	}
}

func TestGraph_NodeByID(t *testing.T) {
	g := domain.NewGraph(halfButterfly())

	n, ok := g.NodeByID("B1")
	require.True(t, ok)
	assert.Equal(t, "Chest-to-chest", n.Label)

	_, ok = g.NodeByID("missing")
	assert.False(t, ok)
}

func TestGraph_NodeByID_FirstDuplicateWins(t *testing.T) {
	seq := &domain.Sequence{Nodes: []domain.Node{{ID: "A", Label: "first"}, {ID: "A", Label: "second"}}}
	n, ok := domain.NewGraph(seq).NodeByID("A")
	require.True(t, ok)
	assert.Equal(t, "first", n.Label)
}

func TestGraph_EdgesFrom_PreservesOrder(t *testing.T) {
	g := domain.NewGraph(halfButterfly())

	for i := 0; i < 5; i++ {
		edges := g.EdgesFrom("HUB")
		require.Len(t, edges, 2)
		assert.Equal(t, "B1", edges[0].ToID)
		assert.Equal(t, "SIDE", edges[1].ToID)
	}

	assert.Empty(t, g.EdgesFrom("SIDE"))
}

func TestGraph_EdgesFrom_ReturnsCopy(t *testing.T) {
	g := domain.NewGraph(halfButterfly())
	edges := g.EdgesFrom("HUB")
	edges[0].ToID = "mutated"

	assert.Equal(t, "B1", g.EdgesFrom("HUB")[0].ToID)
}

func TestGraph_SnapshotIsolation(t *testing.T) {
	seq := halfButterfly()
	g := domain.NewGraph(seq)
	seq.Nodes[2].Label = "changed"

	n, _ := g.NodeByID("B1")
	assert.Equal(t, "Chest-to-chest", n.Label)
}

func TestGraph_Hub(t *testing.T) {
	t.Run("Flagged hub wins over first node", func(t *testing.T) {
		hub, err := domain.NewGraph(halfButterfly()).Hub()
		require.NoError(t, err)
		assert.Equal(t, "HUB", hub.ID)
	})

	t.Run("Falls back to first node", func(t *testing.T) {
		seq := halfButterfly()
		for i := range seq.Nodes {
			seq.Nodes[i].IsHub = false
		}
		hub, err := domain.NewGraph(seq).Hub()
		require.NoError(t, err)
		assert.Equal(t, "N1", hub.ID)
	})

	t.Run("Empty sequence", func(t *testing.T) {
		_, err := domain.NewGraph(&domain.Sequence{}).Hub()
		assert.ErrorIs(t, err, domain.ErrEmptySequence)
	})

	t.Run("Nil sequence", func(t *testing.T) {
		_, err := domain.NewGraph(nil).Hub()
		assert.ErrorIs(t, err, domain.ErrEmptySequence)
	})

	t.Run("Hub without id", func(t *testing.T) {
		seq := &domain.Sequence{Nodes: []domain.Node{{Label: "nameless"}}}
		_, err := domain.NewGraph(seq).Hub()
		assert.ErrorIs(t, err, domain.ErrNoHubResolvable)
	})
}

func TestGraph_Finishers(t *testing.T) {
	g := domain.NewGraph(halfButterfly())
	assert.Equal(t, []string{"SIDE"}, g.Finishers())
	assert.True(t, g.IsFinisher("SIDE"))
	assert.False(t, g.IsFinisher("HUB"))
}

func TestCheckReferences(t *testing.T) {
	assert.Nil(t, domain.CheckReferences(halfButterfly()))

	seq := halfButterfly()
	seq.Edges = append(seq.Edges, domain.Edge{FromID: "GHOST", ToID: "VOID"})

	errs := domain.CheckReferences(seq)
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 2)
	assert.Equal(t, 4, errs.Errors[0].EdgeIndex)
	assert.Equal(t, "fromId", errs.Errors[0].Field)
	assert.Equal(t, "toId", errs.Errors[1].Field)
	assert.Contains(t, errs.Error(), "2 reference errors")
}

func TestEdge_Weight(t *testing.T) {
	w := func(f float64) *float64 { return &f }

	assert.Equal(t, 1.0, domain.Edge{}.Weight())
	assert.Equal(t, 1.0, domain.Edge{FreqWeight: w(0)}.Weight())
	assert.Equal(t, 1.0, domain.Edge{FreqWeight: w(-2)}.Weight())
	assert.Equal(t, 2.5, domain.Edge{FreqWeight: w(2.5)}.Weight())
	assert.Equal(t, 0.0001, domain.Edge{FreqWeight: w(0.0001)}.Weight())
}
