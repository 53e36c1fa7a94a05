package domain

import "math"

// Edge is a directed transition in the sequence graph:
// the opponent reacts (trigger) and I respond (action).
type Edge struct {
	FromID string `json:"fromId" yaml:"fromId"`
	ToID   string `json:"toId" yaml:"toId"`

	// OpponentReaction is what they do, e.g. "Arm-knee connection".
	OpponentReaction string `json:"opponent_reaction" yaml:"opponent_reaction"`
	// MyResponse is what I do. May contain **emphasis** markup.
	MyResponse string `json:"my_response" yaml:"my_response"`

	Priority Priority `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,oneof=A B C"`

	// FreqWeight is the relative frequency used by the quiz. Absent or
	// non-positive means 1.
	FreqWeight *float64 `json:"freq_weight,omitempty" yaml:"freq_weight,omitempty"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Weight returns the effective selection weight of the edge.
func (e Edge) Weight() float64 {
	if e.FreqWeight == nil {
		return 1
	}
	w := *e.FreqWeight
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 1
	}
	return w
}

// Same reports whether two edges describe the same transition.
// Weights are compared by effective value.
func (e Edge) Same(o Edge) bool {
	return e.FromID == o.FromID &&
		e.ToID == o.ToID &&
		e.OpponentReaction == o.OpponentReaction &&
		e.MyResponse == o.MyResponse &&
		e.Priority == o.Priority &&
		e.Notes == o.Notes &&
		e.Weight() == o.Weight()
}
