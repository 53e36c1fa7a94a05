package domain

import (
	"slices"
	"time"
)

// QuizStatus is the mode of a quiz session.
type QuizStatus string

const (
	QuizIdle     QuizStatus = "idle"     // Not started, or reset
	QuizAtNode   QuizStatus = "at_node"  // Positioned on CurrentNodeID
	QuizFinished QuizStatus = "finished" // Ended by the user (view mode)
)

// QuizState is the persisted snapshot of a quiz session.
type QuizState struct {
	SessionID  string     `json:"session_id"`
	SequenceID string     `json:"sequence_id"`
	Status     QuizStatus `json:"status"`

	// CurrentNodeID is set while Status == QuizAtNode.
	CurrentNodeID string `json:"current_node_id,omitempty"`

	// Candidate is the suggested opponent reaction at the current node.
	// Nil at a finisher.
	Candidate *Edge `json:"candidate,omitempty"`

	// History is the path of node ids visited since the last start.
	History []string `json:"history"`

	// Malformed is set when the last move followed an edge whose target
	// does not exist in the sequence.
	Malformed bool `json:"malformed,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuizState creates an idle session for sequenceID.
func NewQuizState(sessionID, sequenceID string) *QuizState {
	now := time.Now()
	return &QuizState{
		SessionID:  sessionID,
		SequenceID: sequenceID,
		Status:     QuizIdle,
		History:    []string{},
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Finisher reports whether the session sits on a node with nothing left to present.
func (s *QuizState) Finisher() bool {
	return s.Status == QuizAtNode && s.Candidate == nil
}

// Clone returns a deep copy of the state.
func (s *QuizState) Clone() *QuizState {
	if s == nil {
		return nil
	}
	c := *s
	c.History = slices.Clone(s.History)
	if s.Candidate != nil {
		e := *s.Candidate
		if e.FreqWeight != nil {
			w := *e.FreqWeight
			e.FreqWeight = &w
		}
		c.Candidate = &e
	}
	return &c
}
