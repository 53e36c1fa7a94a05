package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RawNode is a node as it may appear in a persisted document, including the
// legacy "cues" field.
type RawNode struct {
	ID           string   `json:"id" mapstructure:"id"`
	Label        string   `json:"label" mapstructure:"label"`
	PositionTags []string `json:"position_tag" mapstructure:"position_tag"`
	Actions      []string `json:"actions" mapstructure:"actions"`
	Cues         []string `json:"cues" mapstructure:"cues"`
	PhaseGates   []string `json:"phase_gate" mapstructure:"phase_gate"`
	IsHub        bool     `json:"isHub" mapstructure:"isHub"`
	TechniqueIDs []string `json:"techniqueIds" mapstructure:"techniqueIds"`
	VideoRefs    []string `json:"videoRefs" mapstructure:"videoRefs"`
}

// RawEdge is an edge as persisted.
type RawEdge struct {
	FromID           string   `json:"fromId" mapstructure:"fromId"`
	ToID             string   `json:"toId" mapstructure:"toId"`
	OpponentReaction string   `json:"opponent_reaction" mapstructure:"opponent_reaction"`
	MyResponse       string   `json:"my_response" mapstructure:"my_response"`
	Priority         string   `json:"priority" mapstructure:"priority"`
	FreqWeight       *float64 `json:"freq_weight" mapstructure:"freq_weight"`
	Notes            string   `json:"notes" mapstructure:"notes"`
}

// RawSequence is the persisted document shape. Both key_ideas and the legacy
// cues_global may be present.
type RawSequence struct {
	ID          string    `json:"id" mapstructure:"id"`
	Name        string    `json:"name" mapstructure:"name"`
	Hub         string    `json:"hub" mapstructure:"hub"`
	Tags        []string  `json:"tags" mapstructure:"tags"`
	KeyIdeas    []string  `json:"key_ideas" mapstructure:"key_ideas"`
	CuesGlobal  []string  `json:"cues_global" mapstructure:"cues_global"`
	PhaseGate   []string  `json:"phase_gate" mapstructure:"phase_gate"`
	Nodes       []RawNode `json:"nodes" mapstructure:"nodes"`
	Edges       []RawEdge `json:"edges" mapstructure:"edges"`
	CreatedBy   string    `json:"createdBy" mapstructure:"createdBy"`
	CreatedAt   int64     `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt" mapstructure:"updatedAt"`
	IsArchived  bool      `json:"isArchived" mapstructure:"isArchived"`
	StorageMode string    `json:"storageMode" mapstructure:"storageMode"`
}

// DecodeRaw decodes a generic document (as delivered by a document store or a
// YAML/JSON file) into the raw shape. Scalars are weakly typed so that
// "1.5" and 1.5 both decode into a weight.
func DecodeRaw(doc map[string]any) (RawSequence, error) {
	var raw RawSequence
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return raw, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return raw, fmt.Errorf("failed to decode sequence document: %w", err)
	}
	return raw, nil
}

// ParseSequenceJSON decodes a JSON document of either shape into a canonical Sequence.
func ParseSequenceJSON(data []byte) (*Sequence, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sequence: %w", err)
	}
	raw, err := DecodeRaw(doc)
	if err != nil {
		return nil, err
	}
	return raw.Canonicalize(), nil
}

// EffectiveActions returns the node's actions, or the legacy cues when no
// actions are present. Empty entries are dropped.
func (n RawNode) EffectiveActions() []string {
	return firstNonEmpty(n.Actions, n.Cues)
}

// EffectiveKeyIdeas returns key_ideas, or the legacy cues_global when absent.
func (s RawSequence) EffectiveKeyIdeas() []string {
	return firstNonEmpty(s.KeyIdeas, s.CuesGlobal)
}

// Canonicalize maps the persisted shape to the in-memory shape. This is the
// only place legacy fields are consulted.
func (s RawSequence) Canonicalize() *Sequence {
	seq := &Sequence{
		ID:          s.ID,
		Name:        s.Name,
		Hub:         s.Hub,
		Tags:        nonNil(s.Tags),
		KeyIdeas:    s.EffectiveKeyIdeas(),
		PhaseGate:   toPhases(s.PhaseGate),
		Nodes:       make([]Node, 0, len(s.Nodes)),
		Edges:       make([]Edge, 0, len(s.Edges)),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		IsArchived:  s.IsArchived,
		StorageMode: s.StorageMode,
	}
	if seq.StorageMode == "" {
		seq.StorageMode = StorageModeEmbedded
	}
	for _, n := range s.Nodes {
		seq.Nodes = append(seq.Nodes, Node{
			ID:           n.ID,
			Label:        n.Label,
			PositionTags: n.PositionTags,
			Actions:      n.EffectiveActions(),
			PhaseGates:   toPhases(n.PhaseGates),
			IsHub:        n.IsHub,
			TechniqueIDs: n.TechniqueIDs,
			VideoRefs:    n.VideoRefs,
		})
	}
	for _, e := range s.Edges {
		seq.Edges = append(seq.Edges, Edge{
			FromID:           e.FromID,
			ToID:             e.ToID,
			OpponentReaction: e.OpponentReaction,
			MyResponse:       e.MyResponse,
			Priority:         Priority(e.Priority),
			FreqWeight:       e.FreqWeight,
			Notes:            e.Notes,
		})
	}
	return seq
}

// Raw converts a canonical Sequence back into the persisted shape.
// Legacy fields are left empty.
func (s *Sequence) Raw() RawSequence {
	raw := RawSequence{
		ID:          s.ID,
		Name:        s.Name,
		Hub:         s.Hub,
		Tags:        s.Tags,
		KeyIdeas:    s.KeyIdeas,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		IsArchived:  s.IsArchived,
		StorageMode: s.StorageMode,
	}
	for _, p := range s.PhaseGate {
		raw.PhaseGate = append(raw.PhaseGate, string(p))
	}
	for _, n := range s.Nodes {
		rn := RawNode{
			ID:           n.ID,
			Label:        n.Label,
			PositionTags: n.PositionTags,
			Actions:      n.Actions,
			IsHub:        n.IsHub,
			TechniqueIDs: n.TechniqueIDs,
			VideoRefs:    n.VideoRefs,
		}
		for _, p := range n.PhaseGates {
			rn.PhaseGates = append(rn.PhaseGates, string(p))
		}
		raw.Nodes = append(raw.Nodes, rn)
	}
	for _, e := range s.Edges {
		raw.Edges = append(raw.Edges, RawEdge{
			FromID:           e.FromID,
			ToID:             e.ToID,
			OpponentReaction: e.OpponentReaction,
			MyResponse:       e.MyResponse,
			Priority:         string(e.Priority),
			FreqWeight:       e.FreqWeight,
			Notes:            e.Notes,
		})
	}
	return raw
}

func firstNonEmpty(preferred, legacy []string) []string {
	src := preferred
	if len(src) == 0 && len(legacy) > 0 {
		src = legacy
	}
	if src == nil {
		return nil
	}
	out := make([]string, 0, len(src))
	for _, v := range src {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toPhases(in []string) []PhaseGate {
	if len(in) == 0 {
		return nil
	}
	out := make([]PhaseGate, 0, len(in))
	for _, p := range in {
		out = append(out, PhaseGate(p))
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
