package domain

// PhaseGate is one of the four stages of technique progression.
type PhaseGate string

const (
	PhaseEntry     PhaseGate = "Entry"
	PhaseControl   PhaseGate = "Control"
	PhasePass      PhaseGate = "Pass"
	PhaseStabilize PhaseGate = "Stabilize"
)

// PhaseGates lists the canonical phases in teaching order.
func PhaseGates() []PhaseGate {
	return []PhaseGate{PhaseEntry, PhaseControl, PhasePass, PhaseStabilize}
}

// Valid reports whether p is one of the canonical phases.
func (p PhaseGate) Valid() bool {
	switch p {
	case PhaseEntry, PhaseControl, PhasePass, PhaseStabilize:
		return true
	}
	return false
}

// Priority is an advisory study-ordering hint on an edge. Traversal ignores it.
type Priority string

const (
	PriorityNone Priority = ""
	PriorityA    Priority = "A"
	PriorityB    Priority = "B"
	PriorityC    Priority = "C"
)

// StorageModeEmbedded keeps nodes and edges inside the sequence document.
// It is the only supported mode.
const StorageModeEmbedded = "embedded"

// MaxDocumentBytes is the serialized size guard for a single sequence document.
const MaxDocumentBytes = 1 << 20
