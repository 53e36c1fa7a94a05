package dsl

import (
	"fmt"

	"github.com/aretw0/tatami/pkg/adapters/memory"
	"github.com/aretw0/tatami/pkg/domain"
)

// Builder manages the sequence construction. Nodes and edges keep the order
// they were first added in, which is the order quiz options are offered.
type Builder struct {
	seq   domain.Sequence
	index map[string]int
}

// New creates a builder for a sequence named name.
func New(name string) *Builder {
	return &Builder{
		seq: domain.Sequence{
			Name:  name,
			Nodes: []domain.Node{},
			Edges: []domain.Edge{},
		},
		index: make(map[string]int),
	}
}

// ID sets the sequence id. Without it the library derives one from the name.
func (b *Builder) ID(id string) *Builder {
	b.seq.ID = id
	return b
}

// Tags appends free-form tags.
func (b *Builder) Tags(tags ...string) *Builder {
	b.seq.Tags = append(b.seq.Tags, tags...)
	return b
}

// KeyIdeas appends always-on takeaways.
func (b *Builder) KeyIdeas(ideas ...string) *Builder {
	b.seq.KeyIdeas = append(b.seq.KeyIdeas, ideas...)
	return b
}

// Phases sets the overall phase progression.
func (b *Builder) Phases(phases ...domain.PhaseGate) *Builder {
	b.seq.PhaseGate = phases
	return b
}

// Node returns the builder for node id, adding it on first use.
func (b *Builder) Node(id string) *NodeBuilder {
	if _, ok := b.index[id]; !ok {
		b.index[id] = len(b.seq.Nodes)
		b.seq.Nodes = append(b.seq.Nodes, domain.Node{ID: id})
	}
	return &NodeBuilder{builder: b, id: id}
}

// Sequence returns a copy of the sequence built so far.
func (b *Builder) Sequence() *domain.Sequence {
	return b.seq.Clone()
}

// Build compiles the sequence into a memory loader. The sequence needs an id.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromSequences(b.Sequence())
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
