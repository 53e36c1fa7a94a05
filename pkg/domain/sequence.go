package domain

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Sequence is the full sequence document (embedded nodes and edges).
type Sequence struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
	// Hub is the canonical hub label used for quick starts.
	Hub  string   `json:"hub" yaml:"hub"`
	Tags []string `json:"tags" yaml:"tags"`

	// KeyIdeas are always-on takeaways shown at the top of the viewer.
	KeyIdeas []string `json:"key_ideas" yaml:"key_ideas"`

	// PhaseGate is the overall phase progression of the sequence.
	PhaseGate []PhaseGate `json:"phase_gate" yaml:"phase_gate" validate:"dive,oneof=Entry Control Pass Stabilize"`

	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" validate:"dive"`

	CreatedBy string `json:"createdBy" yaml:"createdBy"`
	// CreatedAt and UpdatedAt are Unix milliseconds.
	CreatedAt   int64  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt" yaml:"updatedAt"`
	IsArchived  bool   `json:"isArchived" yaml:"isArchived"`
	StorageMode string `json:"storageMode" yaml:"storageMode" validate:"omitempty,eq=embedded"`
}

// Clone returns a deep copy so callers can mutate without aliasing store data.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	c := *s
	c.Tags = slices.Clone(s.Tags)
	c.KeyIdeas = slices.Clone(s.KeyIdeas)
	c.PhaseGate = slices.Clone(s.PhaseGate)
	c.Nodes = make([]Node, len(s.Nodes))
	for i, n := range s.Nodes {
		n.PositionTags = slices.Clone(n.PositionTags)
		n.Actions = slices.Clone(n.Actions)
		n.PhaseGates = slices.Clone(n.PhaseGates)
		n.TechniqueIDs = slices.Clone(n.TechniqueIDs)
		n.VideoRefs = slices.Clone(n.VideoRefs)
		c.Nodes[i] = n
	}
	c.Edges = make([]Edge, len(s.Edges))
	for i, e := range s.Edges {
		if e.FreqWeight != nil {
			w := *e.FreqWeight
			e.FreqWeight = &w
		}
		c.Edges[i] = e
	}
	return &c
}

// HasTag reports whether the sequence carries the exact tag.
func (s *Sequence) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// ApproxSize returns the serialized JSON size of the document in bytes.
func (s *Sequence) ApproxSize() int {
	data, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	return len(data)
}

// SequenceChange is delivered by change feeds. Sequence is nil when the
// document was deleted.
type SequenceChange struct {
	ID       string    `json:"id"`
	Sequence *Sequence `json:"sequence,omitempty"`
}

// Deleted reports whether the change removed the document.
func (c SequenceChange) Deleted() bool {
	return c.Sequence == nil
}

// SortByUpdatedDesc orders sequences newest first, ties broken by id.
func SortByUpdatedDesc(seqs []*Sequence) {
	slices.SortFunc(seqs, func(a, b *Sequence) int {
		return cmp.Or(cmp.Compare(b.UpdatedAt, a.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})
}
