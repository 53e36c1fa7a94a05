package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// SequenceStore implements ports.SequenceStore, ports.SequenceSource and
// ports.Watchable on Redis. Documents are JSON strings; a sorted set scored
// by UpdatedAt keeps the listing order and changes are fanned out over
// pub/sub so every replica sees them.
type SequenceStore struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

type SequenceOption func(*SequenceStore)

// WithSequencePrefix sets the key prefix.
func WithSequencePrefix(prefix string) SequenceOption {
	return func(s *SequenceStore) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) SequenceOption {
	return func(s *SequenceStore) {
		s.logger = logger
	}
}

// NewSequenceStore creates a sequence store on an existing client.
func NewSequenceStore(client *backend.Client, opts ...SequenceOption) *SequenceStore {
	s := &SequenceStore{
		client: client,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SequenceStore) key(id string) string {
	return s.prefix + "sequence:" + id
}

func (s *SequenceStore) indexKey() string {
	return s.prefix + "sequence:index"
}

func (s *SequenceStore) channel() string {
	return s.prefix + "sequence:changes"
}

// Save upserts the document and publishes the change.
func (s *SequenceStore) Save(ctx context.Context, seq *domain.Sequence) error {
	data, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}
	change, err := json.Marshal(domain.SequenceChange{ID: seq.ID, Sequence: seq})
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(seq.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(seq.UpdatedAt), Member: seq.ID})
	pipe.Publish(ctx, s.channel(), change)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sequence to redis: %w", err)
	}
	return nil
}

// Load returns the document or domain.ErrSequenceNotFound.
func (s *SequenceStore) Load(ctx context.Context, id string) (*domain.Sequence, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSequenceNotFound
		}
		return nil, fmt.Errorf("failed to get sequence from redis: %w", err)
	}

	seq, err := domain.ParseSequenceJSON(val)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// Delete removes the document and publishes a tombstone.
func (s *SequenceStore) Delete(ctx context.Context, id string) error {
	change, err := json.Marshal(domain.SequenceChange{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete sequence from redis: %w", err)
	}

	if del.Val() > 0 {
		return s.client.Publish(ctx, s.channel(), change).Err()
	}
	return nil
}

// List returns matching documents, newest first.
func (s *SequenceStore) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Sequence, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Sequence{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sequences: %w", err)
	}

	out := make([]*domain.Sequence, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a document; skip it.
			continue
		}
		seq, err := domain.ParseSequenceJSON([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("sequence %s: %w", ids[i], err)
		}
		if opts.Match(seq) {
			out = append(out, seq)
		}
	}

	domain.SortByUpdatedDesc(out)
	return out, nil
}

// FetchSequence implements ports.SequenceSource.
func (s *SequenceStore) FetchSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	return s.Load(ctx, id)
}

// ListSequenceIDs implements ports.SequenceSource.
func (s *SequenceStore) ListSequenceIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sequence ids: %w", err)
	}
	return ids, nil
}

// Watch subscribes to the change channel until ctx is done.
func (s *SequenceStore) Watch(ctx context.Context) (<-chan domain.SequenceChange, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	// Wait for the subscription to be confirmed before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to sequence changes: %w", err)
	}

	out := make(chan domain.SequenceChange, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change domain.SequenceChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					s.logger.Warn("dropping malformed sequence change", "error", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
