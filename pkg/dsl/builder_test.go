package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/tatami/internal/runtime"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func halfButterfly() *Builder {
	b := New("Half-Butterfly Sweep").
		ID("half-butterfly").
		Tags("guard").
		KeyIdeas("Head **higher** than theirs").
		Phases(domain.PhaseEntry, domain.PhaseControl)

	b.Node("HUB").
		Label("Half-butterfly hub").
		Hub().
		Actions("**Underhook** first").
		Phases(domain.PhaseEntry)

	b.Node("B1").Label("Chest-to-chest").Tags("top")
	b.Node("SIDE").Label("Side control").Techniques("t-1")

	b.Node("HUB").On("Frames", "Shrimp **out**").To("B1").Weight(3).Priority(domain.PriorityA)
	b.Node("HUB").On("Turns away", "Take the back").To("SIDE").Notes("Seatbelt first")
	b.Node("B1").On("Flattens", "Come up").To("SIDE")
	return b
}

func TestBuilder_Sequence(t *testing.T) {
	seq := halfButterfly().Sequence()

	assert.Equal(t, "half-butterfly", seq.ID)
	assert.Equal(t, "Half-butterfly hub", seq.Hub)
	assert.Equal(t, []domain.PhaseGate{domain.PhaseEntry, domain.PhaseControl}, seq.PhaseGate)

	require.Len(t, seq.Nodes, 3, "re-adding a node does not duplicate it")
	assert.Equal(t, []string{"HUB", "B1", "SIDE"}, []string{seq.Nodes[0].ID, seq.Nodes[1].ID, seq.Nodes[2].ID})
	assert.True(t, seq.Nodes[0].IsHub)
	assert.Equal(t, []string{"**Underhook** first"}, seq.Nodes[0].Actions)
	assert.Equal(t, []string{"top"}, seq.Nodes[1].PositionTags)
	assert.Equal(t, []string{"t-1"}, seq.Nodes[2].TechniqueIDs)

	require.Len(t, seq.Edges, 3)
	first := seq.Edges[0]
	assert.Equal(t, "HUB", first.FromID)
	assert.Equal(t, "B1", first.ToID)
	assert.Equal(t, domain.PriorityA, first.Priority)
	require.NotNil(t, first.FreqWeight)
	assert.Equal(t, 3.0, *first.FreqWeight)
	assert.Equal(t, "Seatbelt first", seq.Edges[1].Notes)

	assert.Nil(t, domain.CheckReferences(seq))
}

func TestBuilder_SequenceIsACopy(t *testing.T) {
	b := halfButterfly()
	seq := b.Sequence()
	seq.Nodes[0].Label = "changed"

	assert.Equal(t, "Half-butterfly hub", b.Node("HUB").Build().Label)
}

func TestBuilder_Build(t *testing.T) {
	loader, err := halfButterfly().Build()
	require.NoError(t, err)

	seq, err := loader.FetchSequence(context.Background(), "half-butterfly")
	require.NoError(t, err)

	g := domain.NewGraph(seq)
	hub, err := g.Hub()
	require.NoError(t, err)
	assert.Equal(t, "HUB", hub.ID)

	pick, ok := runtime.PickWeighted(g.EdgesFrom("HUB"), runtime.RandFunc(func() float64 { return 0 }))
	require.True(t, ok)
	assert.Equal(t, "B1", pick.ToID)
}

func TestBuilder_BuildRequiresID(t *testing.T) {
	_, err := New("No id").Build()
	assert.Error(t, err)
}
