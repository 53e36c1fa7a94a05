package domain

// Graph is an indexed, read-only view over a Sequence snapshot.
// Node lookup is O(1); outgoing edges are pre-grouped per node in the
// sequence's original edge order.
type Graph struct {
	seq   *Sequence
	index map[string]int
	out   map[string][]Edge
}

// NewGraph indexes a snapshot of seq. Later mutations of seq are not seen.
// When node ids collide, the first occurrence wins.
func NewGraph(seq *Sequence) *Graph {
	snap := seq.Clone()
	if snap == nil {
		snap = &Sequence{}
	}
	g := &Graph{
		seq:   snap,
		index: make(map[string]int, len(snap.Nodes)),
		out:   make(map[string][]Edge),
	}
	for i, n := range snap.Nodes {
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = i
		}
	}
	for _, e := range snap.Edges {
		g.out[e.FromID] = append(g.out[e.FromID], e)
	}
	return g
}

// Sequence returns the indexed snapshot. Callers must not mutate it.
func (g *Graph) Sequence() *Sequence {
	return g.seq
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.seq.Nodes[i], true
}

// EdgesFrom returns the edges leaving nodeID in original order.
// The returned slice is a copy.
func (g *Graph) EdgesFrom(nodeID string) []Edge {
	edges := g.out[nodeID]
	if len(edges) == 0 {
		return nil
	}
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Hub resolves the quiz starting node: the first node flagged IsHub, else the
// first node. It fails with ErrEmptySequence when there are no nodes and with
// ErrNoHubResolvable when the resolved node has no usable id.
func (g *Graph) Hub() (Node, error) {
	if len(g.seq.Nodes) == 0 {
		return Node{}, ErrEmptySequence
	}
	hub := g.seq.Nodes[0]
	for _, n := range g.seq.Nodes {
		if n.IsHub {
			hub = n
			break
		}
	}
	if hub.ID == "" {
		return Node{}, ErrNoHubResolvable
	}
	return hub, nil
}

// IsFinisher reports whether nodeID has no outgoing edges.
func (g *Graph) IsFinisher(nodeID string) bool {
	return len(g.out[nodeID]) == 0
}

// Finishers returns the ids of nodes without outgoing edges, in node order.
func (g *Graph) Finishers() []string {
	var ids []string
	for _, n := range g.seq.Nodes {
		if g.IsFinisher(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
