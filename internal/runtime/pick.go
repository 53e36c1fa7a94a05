package runtime

import (
	"math/rand/v2"

	"github.com/aretw0/tatami/pkg/domain"
)

// RandSource yields uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

type defaultSource struct{}

func (defaultSource) Float64() float64 { return rand.Float64() }

// DefaultSource is the process-wide pseudo-random source.
var DefaultSource RandSource = defaultSource{}

// RandFunc adapts a function to RandSource.
type RandFunc func() float64

func (f RandFunc) Float64() float64 { return f() }

// PickWeighted selects an edge with probability proportional to its
// effective weight. It draws r in [0, total), subtracts each weight in order
// and returns the first edge where the remainder drops to <= 0, falling back
// to the last edge. It returns false for an empty list.
func PickWeighted(edges []domain.Edge, src RandSource) (domain.Edge, bool) {
	if len(edges) == 0 {
		return domain.Edge{}, false
	}
	if src == nil {
		src = DefaultSource
	}

	total := 0.0
	for _, e := range edges {
		total += e.Weight()
	}

	r := src.Float64() * total
	for _, e := range edges {
		r -= e.Weight()
		if r <= 0 {
			return e, true
		}
	}
	return edges[len(edges)-1], true
}
