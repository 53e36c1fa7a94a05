package runtime_test

import (
	"testing"

	"github.com/aretw0/tatami/internal/runtime"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v float64) runtime.RandSource {
	return runtime.RandFunc(func() float64 { return v })
}

func weight(w float64) *float64 { return &w }

func TestPickWeighted_ProportionalDraw(t *testing.T) {
	edges := []domain.Edge{
		{ToID: "first", FreqWeight: weight(1)},
		{ToID: "second", FreqWeight: weight(3)},
	}

	// total 4, draw 2.0: 2-1 = 1 > 0, 1-3 = -2 <= 0
	picked, ok := runtime.PickWeighted(edges, fixed(0.5))
	require.True(t, ok)
	assert.Equal(t, "second", picked.ToID)

	// draw 0.4: 0.4-1 <= 0
	picked, _ = runtime.PickWeighted(edges, fixed(0.1))
	assert.Equal(t, "first", picked.ToID)

	// boundary: draw exactly 1.0 lands on the first edge
	picked, _ = runtime.PickWeighted(edges, fixed(0.25))
	assert.Equal(t, "first", picked.ToID)
}

func TestPickWeighted_SingleEdge(t *testing.T) {
	edges := []domain.Edge{{ToID: "only"}}
	for _, r := range []float64{0, 0.3, 0.999999} {
		picked, ok := runtime.PickWeighted(edges, fixed(r))
		require.True(t, ok)
		assert.Equal(t, "only", picked.ToID)
	}
}

func TestPickWeighted_Empty(t *testing.T) {
	_, ok := runtime.PickWeighted(nil, fixed(0.5))
	assert.False(t, ok)
}

func TestPickWeighted_NonPositiveWeightsCountAsOne(t *testing.T) {
	edges := []domain.Edge{
		{ToID: "zero", FreqWeight: weight(0)},
		{ToID: "negative", FreqWeight: weight(-5)},
	}
	// total 2, draw 1.2: 1.2-1 > 0, 0.2-1 <= 0
	picked, _ := runtime.PickWeighted(edges, fixed(0.6))
	assert.Equal(t, "negative", picked.ToID)
}

func TestPickWeighted_RoundingFallsBackToLast(t *testing.T) {
	edges := []domain.Edge{{ToID: "a"}, {ToID: "b"}}
	// A broken source returning >= 1 must still yield an edge.
	picked, ok := runtime.PickWeighted(edges, fixed(1.5))
	require.True(t, ok)
	assert.Equal(t, "b", picked.ToID)
}

func TestPickWeighted_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("always returns a member of the input", prop.ForAll(
		func(weights []float64, r float64) bool {
			edges := make([]domain.Edge, len(weights))
			for i := range weights {
				edges[i] = domain.Edge{ToID: string(rune('a' + i%26)), FreqWeight: weight(weights[i])}
			}
			picked, ok := runtime.PickWeighted(edges, fixed(r))
			if len(edges) == 0 {
				return !ok
			}
			for _, e := range edges {
				if e.Same(picked) {
					return ok
				}
			}
			return false
		},
		gen.SliceOf(gen.Float64Range(-10, 100)),
		gen.Float64Range(0, 0.999999),
	))

	properties.TestingRun(t)
}
