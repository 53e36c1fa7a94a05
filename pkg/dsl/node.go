package dsl

import "github.com/aretw0/tatami/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	builder *Builder
	id      string
}

func (n *NodeBuilder) node() *domain.Node {
	return &n.builder.seq.Nodes[n.builder.index[n.id]]
}

// Label sets the display name of the position.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node().Label = label
	return n
}

// Hub marks the node as a hub and, unless already set, names the
// sequence hub after its label.
func (n *NodeBuilder) Hub() *NodeBuilder {
	node := n.node()
	node.IsHub = true
	if n.builder.seq.Hub == "" {
		n.builder.seq.Hub = node.Label
	}
	return n
}

// Actions appends execution cues. They may contain **emphasis** markup.
func (n *NodeBuilder) Actions(actions ...string) *NodeBuilder {
	node := n.node()
	node.Actions = append(node.Actions, actions...)
	return n
}

// Phases sets the phase gates of the position.
func (n *NodeBuilder) Phases(phases ...domain.PhaseGate) *NodeBuilder {
	n.node().PhaseGates = phases
	return n
}

// Tags appends position tags.
func (n *NodeBuilder) Tags(tags ...string) *NodeBuilder {
	node := n.node()
	node.PositionTags = append(node.PositionTags, tags...)
	return n
}

// Techniques links catalogue techniques to the position.
func (n *NodeBuilder) Techniques(ids ...string) *NodeBuilder {
	node := n.node()
	node.TechniqueIDs = append(node.TechniqueIDs, ids...)
	return n
}

// On adds an outgoing edge: the opponent reacts, I respond. The edge has
// no target until To is called.
func (n *NodeBuilder) On(reaction, response string) *EdgeBuilder {
	b := n.builder
	b.seq.Edges = append(b.seq.Edges, domain.Edge{
		FromID:           n.id,
		OpponentReaction: reaction,
		MyResponse:       response,
	})
	return &EdgeBuilder{builder: b, index: len(b.seq.Edges) - 1}
}

// Build returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return *n.node()
}

// EdgeBuilder configures a single transition.
type EdgeBuilder struct {
	builder *Builder
	index   int
}

func (e *EdgeBuilder) edge() *domain.Edge {
	return &e.builder.seq.Edges[e.index]
}

// To sets the target position. It is not required to exist yet.
func (e *EdgeBuilder) To(target string) *EdgeBuilder {
	e.edge().ToID = target
	return e
}

// Priority sets the advisory study priority.
func (e *EdgeBuilder) Priority(p domain.Priority) *EdgeBuilder {
	e.edge().Priority = p
	return e
}

// Weight sets the relative frequency used by the quiz.
func (e *EdgeBuilder) Weight(w float64) *EdgeBuilder {
	e.edge().FreqWeight = &w
	return e
}

// Notes attaches coaching notes.
func (e *EdgeBuilder) Notes(notes string) *EdgeBuilder {
	e.edge().Notes = notes
	return e
}
