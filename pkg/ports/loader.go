package ports

import (
	"context"

	"github.com/aretw0/tatami/pkg/domain"
)

// SequenceSource supplies sequence snapshots without owning their lifecycle.
// This allows the authoring backend (Loam, a document store, memory) to be
// decoupled from the quiz runtime.
type SequenceSource interface {
	// FetchSequence returns the current snapshot of a sequence.
	// Returns domain.ErrSequenceNotFound if it does not exist.
	FetchSequence(ctx context.Context, id string) (*domain.Sequence, error)

	// ListSequenceIDs returns the ids of every sequence available.
	ListSequenceIDs(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// Each delivered change replaces the in-memory snapshot of that sequence.
type Watchable interface {
	// Watch returns a channel of changes. The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan domain.SequenceChange, error)
}
