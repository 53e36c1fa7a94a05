package loam

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/pkg/domain"
)

// Loader serves sequence documents from a Loam repository (Markdown with
// YAML frontmatter, JSON or YAML files). It is read-only: authoring happens
// through a SequenceStore.
type Loader struct {
	Repo   *loam.TypedRepository[domain.RawSequence]
	logger *slog.Logger
}

type Option func(*Loader)

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[domain.RawSequence], opts ...Option) *Loader {
	l := &Loader{
		Repo:   repo,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a Loam repository rooted at dir and wraps it.
func Open(dir string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath, loam.WithVersioning(false))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[domain.RawSequence](repo), opts...), nil
}

// FetchSequence implements ports.SequenceSource. id is either the document
// id declared in the frontmatter or the file path without extension.
func (l *Loader) FetchSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err == nil {
		return canonical(doc.ID, doc.Data), nil
	}

	// The declared id may differ from the file name.
	docs, listErr := l.Repo.List(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("loam list failed: %w", listErr)
	}
	for _, d := range docs {
		if documentID(d.ID, d.Data) == id {
			return canonical(d.ID, d.Data), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSequenceNotFound, id)
}

// ListSequenceIDs implements ports.SequenceSource.
func (l *Loader) ListSequenceIDs(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := documentID(doc.ID, doc.Data)
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Watch implements ports.Watchable. Every file event is resolved back to a
// document; files that can no longer be read are reported as deleted.
func (l *Loader) Watch(ctx context.Context) (<-chan domain.SequenceChange, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan domain.SequenceChange, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				change := l.resolve(ctx, evt.ID)
				select {
				case ch <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func (l *Loader) resolve(ctx context.Context, docID string) domain.SequenceChange {
	doc, err := l.Repo.Get(ctx, trimExtension(docID))
	if err != nil {
		l.logger.Debug("sequence document gone", "doc", docID, "error", err)
		return domain.SequenceChange{ID: trimExtension(docID)}
	}
	seq := canonical(doc.ID, doc.Data)
	return domain.SequenceChange{ID: seq.ID, Sequence: seq}
}

func canonical(docID string, raw domain.RawSequence) *domain.Sequence {
	raw.ID = documentID(docID, raw)
	return raw.Canonicalize()
}

func documentID(docID string, raw domain.RawSequence) string {
	if raw.ID != "" {
		return raw.ID
	}
	return trimExtension(docID)
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return filepath.ToSlash(id)
}
