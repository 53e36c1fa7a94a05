package domain

// QuizDiff represents the changes between two quiz states.
// It is serialized to JSON for partial updates on SSE clients.
type QuizDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string     `json:"current_node_id,omitempty"`
	Status        *QuizStatus `json:"status,omitempty"`

	// Candidate is set when the suggested reaction changed.
	// CandidateCleared is set when it went away (finisher).
	Candidate        *Edge `json:"candidate,omitempty"`
	CandidateCleared bool  `json:"candidate_cleared,omitempty"`

	// History contains node ids appended since the previous state.
	// A restart replaces the history, so Reset tells clients to drop theirs first.
	History *HistoryDelta `json:"history,omitempty"`

	Finisher  *bool `json:"finisher,omitempty"`
	Malformed *bool `json:"malformed,omitempty"`
}

// HistoryDelta represents changes to the visited path.
type HistoryDelta struct {
	Reset    bool     `json:"reset,omitempty"`
	Appended []string `json:"appended"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
// It returns nil when nothing changed.
func Diff(oldState, newState *QuizState) *QuizDiff {
	if newState == nil {
		return nil
	}

	diff := &QuizDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.CurrentNodeID != newState.CurrentNodeID {
		id := newState.CurrentNodeID
		diff.CurrentNodeID = &id
	}
	if oldState == nil || oldState.Status != newState.Status {
		st := newState.Status
		diff.Status = &st
	}

	switch {
	case newState.Candidate != nil && (oldState == nil || oldState.Candidate == nil || !oldState.Candidate.Same(*newState.Candidate)):
		c := *newState.Candidate
		diff.Candidate = &c
	case newState.Candidate == nil && oldState != nil && oldState.Candidate != nil:
		diff.CandidateCleared = true
	}

	if fin := newState.Finisher(); oldState == nil || oldState.Finisher() != fin {
		if fin || oldState != nil {
			diff.Finisher = &fin
		}
	}
	if mal := newState.Malformed; (oldState == nil && mal) || (oldState != nil && oldState.Malformed != mal) {
		diff.Malformed = &mal
	}

	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffHistory(old, new *QuizState) *HistoryDelta {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return &HistoryDelta{Appended: new.History}
	}

	oldLen, newLen := len(old.History), len(new.History)
	if newLen >= oldLen && equalPrefix(old.History, new.History) {
		if newLen == oldLen {
			return nil
		}
		return &HistoryDelta{Appended: new.History[oldLen:]}
	}
	return &HistoryDelta{Reset: true, Appended: new.History}
}

func equalPrefix(prefix, full []string) bool {
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *QuizDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		d.Status == nil &&
		d.Candidate == nil &&
		!d.CandidateCleared &&
		d.Finisher == nil &&
		d.Malformed == nil &&
		d.History == nil
}
