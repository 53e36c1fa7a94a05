package domain

// Node is a single position in a sequence graph,
// e.g. "Half-Butterfly Hub (top)" or "Chest-to-chest with nearside underhook".
type Node struct {
	// ID is unique within the sequence (e.g. "N1", "B2", "SIDE").
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`

	// PositionTags are used for search and filtering.
	PositionTags []string `json:"position_tag,omitempty" yaml:"position_tag,omitempty"`

	// Actions are ordered execution cues. They may contain **emphasis** markup.
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`

	PhaseGates []PhaseGate `json:"phase_gate,omitempty" yaml:"phase_gate,omitempty" validate:"dive,oneof=Entry Control Pass Stabilize"`

	// IsHub marks a node other branches funnel back to. Not enforced unique.
	IsHub bool `json:"isHub,omitempty" yaml:"isHub,omitempty"`

	TechniqueIDs []string `json:"techniqueIds,omitempty" yaml:"techniqueIds,omitempty"`
	VideoRefs    []string `json:"videoRefs,omitempty" yaml:"videoRefs,omitempty"`
}
