package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/tatami/pkg/domain"
)

// Loader implements ports.SequenceSource over raw persisted documents held in
// memory. Documents may use the legacy field names; they are canonicalized
// once, on construction.
type Loader struct {
	sequences map[string]*domain.Sequence
}

// NewLoader creates a Loader from raw JSON documents keyed by sequence id.
// When a document carries no id, its key is used.
func NewLoader(data map[string]string) (*Loader, error) {
	seqs := make(map[string]*domain.Sequence, len(data))
	for k, v := range data {
		seq, err := domain.ParseSequenceJSON([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("failed to parse sequence %s: %w", k, err)
		}
		if seq.ID == "" {
			seq.ID = k
		}
		seqs[seq.ID] = seq
	}
	return &Loader{sequences: seqs}, nil
}

// NewFromSequences creates a Loader from domain objects.
func NewFromSequences(sequences ...*domain.Sequence) (*Loader, error) {
	seqs := make(map[string]*domain.Sequence, len(sequences))
	for _, s := range sequences {
		if s.ID == "" {
			return nil, fmt.Errorf("sequence missing ID")
		}
		seqs[s.ID] = s.Clone()
	}
	return &Loader{sequences: seqs}, nil
}

// FetchSequence returns a copy of the sequence.
func (l *Loader) FetchSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	seq, ok := l.sequences[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, id)
	}
	return seq.Clone(), nil
}

// ListSequenceIDs returns all available sequence ids.
func (l *Loader) ListSequenceIDs(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.sequences))
	for k := range l.sequences {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
