package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySequence is returned when a quiz is started on a sequence without nodes.
var ErrEmptySequence = errors.New("sequence has no nodes")

// ErrNoHubResolvable is returned when no usable starting node can be resolved.
var ErrNoHubResolvable = errors.New("no hub node resolvable")

// ErrSequenceNotFound is returned when a sequence id cannot be found in the store.
var ErrSequenceNotFound = errors.New("sequence not found")

// ErrSessionNotFound is returned when a quiz session id cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidChoice is returned when a chosen edge is not an option at the current node.
var ErrInvalidChoice = errors.New("edge is not an option at the current node")

// ErrQuizNotStarted is returned when choosing on a quiz that has no current node.
var ErrQuizNotStarted = errors.New("quiz not started")

// ErrDocumentTooLarge is returned when a sequence exceeds MaxDocumentBytes.
var ErrDocumentTooLarge = errors.New("sequence document too large")

var (
	ErrCurriculumNotFound = errors.New("curriculum not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrTechniqueNotFound  = errors.New("technique not found")
)

// ReferenceError reports an edge whose endpoint does not resolve to a node.
// It is a data-quality warning, never a hard failure.
type ReferenceError struct {
	EdgeIndex int
	Field     string // "fromId" or "toId"
	Ref       string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("edge[%d] %s %q not found in nodes", e.EdgeIndex, e.Field, e.Ref)
}

// ReferenceErrors aggregates reference problems of one sequence.
type ReferenceErrors struct {
	Errors []*ReferenceError
}

func (e *ReferenceErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d reference errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
