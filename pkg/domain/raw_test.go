package domain_test

import (
	"testing"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawNode_EffectiveActions(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, domain.RawNode{Actions: []string{"a", "", "b"}, Cues: []string{"c"}}.EffectiveActions())
	assert.Equal(t, []string{"c"}, domain.RawNode{Cues: []string{"", "c"}}.EffectiveActions())
	assert.Equal(t, []string{"c"}, domain.RawNode{Actions: []string{}, Cues: []string{"c"}}.EffectiveActions())
	assert.Empty(t, domain.RawNode{}.EffectiveActions())
}

func TestRawSequence_EffectiveKeyIdeas(t *testing.T) {
	assert.Equal(t, []string{"k"}, domain.RawSequence{KeyIdeas: []string{"k"}, CuesGlobal: []string{"legacy"}}.EffectiveKeyIdeas())
	assert.Equal(t, []string{"legacy"}, domain.RawSequence{CuesGlobal: []string{"legacy"}}.EffectiveKeyIdeas())
}

func TestParseSequenceJSON_LegacyShape(t *testing.T) {
	data := []byte(`{
		"id": "hb",
		"name": "Half-Butterfly",
		"cues_global": ["Head position first", ""],
		"phase_gate": ["Entry", "Control"],
		"nodes": [
			{"id": "HUB", "label": "Hub", "isHub": true, "cues": ["**Crossface**"]},
			{"id": "B1", "label": "Chest-to-chest", "actions": ["Walk hips"], "cues": ["ignored"]}
		],
		"edges": [
			{"fromId": "HUB", "toId": "B1", "opponent_reaction": "Frames", "my_response": "Underhook", "priority": "A", "freq_weight": "2.5"}
		],
		"createdAt": 1700000000000
	}`)

	seq, err := domain.ParseSequenceJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "hb", seq.ID)
	assert.Equal(t, []string{"Head position first"}, seq.KeyIdeas)
	assert.Equal(t, []domain.PhaseGate{domain.PhaseEntry, domain.PhaseControl}, seq.PhaseGate)
	assert.Equal(t, domain.StorageModeEmbedded, seq.StorageMode)
	assert.Equal(t, []string{}, seq.Tags)
	assert.Equal(t, int64(1700000000000), seq.CreatedAt)

	require.Len(t, seq.Nodes, 2)
	assert.Equal(t, []string{"**Crossface**"}, seq.Nodes[0].Actions)
	assert.Equal(t, []string{"Walk hips"}, seq.Nodes[1].Actions)

	require.Len(t, seq.Edges, 1)
	assert.Equal(t, domain.PriorityA, seq.Edges[0].Priority)
	assert.Equal(t, 2.5, seq.Edges[0].Weight())
}

func TestParseSequenceJSON_Invalid(t *testing.T) {
	_, err := domain.ParseSequenceJSON([]byte("{"))
	assert.Error(t, err)
}

func TestSequence_RawRoundTrip(t *testing.T) {
	seq := halfButterfly()
	seq.KeyIdeas = []string{"Head first"}
	seq.PhaseGate = domain.PhaseGates()
	seq.StorageMode = domain.StorageModeEmbedded
	seq.Tags = []string{"half guard"}

	back := seq.Raw().Canonicalize()
	assert.Equal(t, seq.KeyIdeas, back.KeyIdeas)
	assert.Equal(t, seq.PhaseGate, back.PhaseGate)
	assert.Equal(t, seq.Edges, back.Edges)
	assert.Equal(t, len(seq.Nodes), len(back.Nodes))
}

func TestSequence_Clone(t *testing.T) {
	w := 2.0
	seq := halfButterfly()
	seq.Edges[0].FreqWeight = &w
	seq.Tags = []string{"a"}

	c := seq.Clone()
	c.Tags[0] = "b"
	*c.Edges[0].FreqWeight = 9
	c.Nodes[0].Label = "x"

	assert.Equal(t, "a", seq.Tags[0])
	assert.Equal(t, 2.0, *seq.Edges[0].FreqWeight)
	assert.Equal(t, "Entry", seq.Nodes[0].Label)
	assert.Greater(t, seq.ApproxSize(), 0)
}
