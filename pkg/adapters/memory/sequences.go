package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
)

// SequenceStore implements ports.SequenceStore, ports.SequenceSource and
// ports.Watchable in memory. Safe for concurrent use.
type SequenceStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Sequence

	subMu sync.Mutex
	subs  map[chan domain.SequenceChange]struct{}
}

// NewSequenceStore creates an empty store.
func NewSequenceStore() *SequenceStore {
	return &SequenceStore{
		data: make(map[string]*domain.Sequence),
		subs: make(map[chan domain.SequenceChange]struct{}),
	}
}

// Save stores a copy of seq and notifies watchers.
func (s *SequenceStore) Save(ctx context.Context, seq *domain.Sequence) error {
	copied := seq.Clone()

	s.mu.Lock()
	s.data[seq.ID] = copied
	s.mu.Unlock()

	s.publish(domain.SequenceChange{ID: seq.ID, Sequence: copied.Clone()})
	return nil
}

// Load returns a copy of the stored sequence.
func (s *SequenceStore) Load(ctx context.Context, id string) (*domain.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSequenceNotFound
	}
	return seq.Clone(), nil
}

// Delete removes a sequence and notifies watchers.
func (s *SequenceStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, existed := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if existed {
		s.publish(domain.SequenceChange{ID: id})
	}
	return nil
}

// List returns matching sequences, newest first.
func (s *SequenceStore) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Sequence, error) {
	s.mu.RLock()
	out := make([]*domain.Sequence, 0, len(s.data))
	for _, seq := range s.data {
		if opts.Match(seq) {
			out = append(out, seq.Clone())
		}
	}
	s.mu.RUnlock()

	domain.SortByUpdatedDesc(out)
	return out, nil
}

// FetchSequence implements ports.SequenceSource.
func (s *SequenceStore) FetchSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	return s.Load(ctx, id)
}

// ListSequenceIDs implements ports.SequenceSource.
func (s *SequenceStore) ListSequenceIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Watch subscribes to changes until ctx is done. Slow subscribers miss
// changes rather than block writers.
func (s *SequenceStore) Watch(ctx context.Context) (<-chan domain.SequenceChange, error) {
	ch := make(chan domain.SequenceChange, 16)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.subMu.Unlock()
	}()

	return ch, nil
}

func (s *SequenceStore) publish(change domain.SequenceChange) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
