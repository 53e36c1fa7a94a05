package tatami

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/aretw0/tatami/internal/validator"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/aretw0/tatami/pkg/tags"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultSequenceName is used when a sequence is created without a name.
	DefaultSequenceName = "Untitled Sequence"
	// DefaultCreatedBy is the author recorded when none is given.
	DefaultCreatedBy = "me"
)

// ErrWatchUnsupported is returned by Watch when the store has no change feed.
var ErrWatchUnsupported = errors.New("sequence store does not support watching")

// ListSequences returns sequences newest first. The tag filter is normalized.
func (l *Library) ListSequences(ctx context.Context, opts ports.ListOptions) ([]*domain.Sequence, error) {
	opts.Tag = tags.NormalizeTag(opts.Tag)
	return l.sequences.List(ctx, opts)
}

// GetSequence loads a sequence by id.
func (l *Library) GetSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	return l.sequences.Load(ctx, id)
}

// CreateSequence fills defaults, stamps createdAt/updatedAt and persists.
// Shape problems fail the call; dangling edge references are returned as
// warnings and logged.
func (l *Library) CreateSequence(ctx context.Context, seq *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error) {
	next := seq.Clone()
	if next == nil {
		next = &domain.Sequence{}
	}

	if next.Name == "" {
		next.Name = DefaultSequenceName
	}
	if next.ID == "" {
		next.ID = l.sequenceID(next.Name)
	}
	if next.CreatedBy == "" {
		next.CreatedBy = DefaultCreatedBy
	}
	if len(next.PhaseGate) == 0 {
		next.PhaseGate = domain.PhaseGates()
	}
	now := l.nowMillis()
	next.CreatedAt = now
	next.UpdatedAt = now

	return l.put(ctx, next)
}

// SaveSequence upserts seq and bumps updatedAt. Creation metadata of an
// existing document is preserved.
func (l *Library) SaveSequence(ctx context.Context, seq *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error) {
	next := seq.Clone()
	if next == nil || next.ID == "" {
		return nil, nil, &validator.ShapeError{Problems: []string{"id is required"}}
	}

	prev, err := l.sequences.Load(ctx, next.ID)
	switch {
	case err == nil:
		next.CreatedAt = prev.CreatedAt
		if next.CreatedBy == "" {
			next.CreatedBy = prev.CreatedBy
		}
		next.UpdatedAt = max(l.nowMillis(), prev.UpdatedAt+1)
	case errors.Is(err, domain.ErrSequenceNotFound):
		now := l.nowMillis()
		if next.CreatedAt == 0 {
			next.CreatedAt = now
		}
		next.UpdatedAt = now
	default:
		return nil, nil, fmt.Errorf("failed to load sequence %s: %w", next.ID, err)
	}

	return l.put(ctx, next)
}

// PatchSequence applies fn to the stored sequence and saves the result.
func (l *Library) PatchSequence(ctx context.Context, id string, fn func(*domain.Sequence) error) (*domain.Sequence, *domain.ReferenceErrors, error) {
	seq, err := l.sequences.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := fn(seq); err != nil {
		return nil, nil, err
	}
	seq.ID = id
	return l.SaveSequence(ctx, seq)
}

// ArchiveSequence sets the soft-delete flag.
func (l *Library) ArchiveSequence(ctx context.Context, id string, archived bool) error {
	_, _, err := l.PatchSequence(ctx, id, func(s *domain.Sequence) error {
		s.IsArchived = archived
		return nil
	})
	return err
}

// DeleteSequence removes a sequence permanently.
func (l *Library) DeleteSequence(ctx context.Context, id string) error {
	return l.sequences.Delete(ctx, id)
}

// DeleteSequences removes several sequences, attempting all of them.
func (l *Library) DeleteSequences(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := l.sequences.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// ImportSequences copies every sequence of source into the store and
// returns how many were written. Reference warnings are logged only.
func (l *Library) ImportSequences(ctx context.Context, source ports.SequenceSource) (int, error) {
	ids, err := source.ListSequenceIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source sequences: %w", err)
	}

	imported := 0
	for _, id := range ids {
		seq, err := source.FetchSequence(ctx, id)
		if err != nil {
			return imported, fmt.Errorf("failed to fetch %s: %w", id, err)
		}
		if _, _, err := l.SaveSequence(ctx, seq); err != nil {
			return imported, fmt.Errorf("failed to import %s: %w", id, err)
		}
		imported++
	}
	return imported, nil
}

// Watch streams changes from the store when it supports it.
func (l *Library) Watch(ctx context.Context) (<-chan domain.SequenceChange, error) {
	w, ok := l.sequences.(ports.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// Lint reports the data-quality warnings of a stored sequence.
func (l *Library) Lint(ctx context.Context, id string) (*validator.Report, error) {
	seq, err := l.sequences.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return validator.Lint(seq), nil
}

// put normalizes, validates and stores next.
func (l *Library) put(ctx context.Context, next *domain.Sequence) (*domain.Sequence, *domain.ReferenceErrors, error) {
	next.Tags = tags.NormalizeTags(next.Tags)
	if next.StorageMode == "" {
		next.StorageMode = domain.StorageModeEmbedded
	}
	ensureSlices(next)

	if err := validator.ValidateShape(next); err != nil {
		return nil, nil, err
	}
	if size := next.ApproxSize(); size > domain.MaxDocumentBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrDocumentTooLarge, size, domain.MaxDocumentBytes)
	}

	refs := domain.CheckReferences(next)
	if refs != nil {
		for _, e := range refs.Errors {
			l.logger.Warn("edge references unknown node",
				"sequence_id", next.ID,
				"edge_index", e.EdgeIndex,
				"field", e.Field,
				"ref", e.Ref,
			)
		}
	}

	if err := l.sequences.Save(ctx, next); err != nil {
		return nil, nil, fmt.Errorf("failed to save sequence %s: %w", next.ID, err)
	}
	l.logger.Debug("sequence saved", "sequence_id", next.ID, "nodes", len(next.Nodes), "edges", len(next.Edges))
	return next.Clone(), refs, nil
}

func ensureSlices(s *domain.Sequence) {
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.KeyIdeas == nil {
		s.KeyIdeas = []string{}
	}
	if s.Nodes == nil {
		s.Nodes = []domain.Node{}
	}
	if s.Edges == nil {
		s.Edges = []domain.Edge{}
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)

// Slug lowercases s, strips diacritics and collapses everything outside
// [a-z0-9_-] into underscores, keeping at most 50 characters. Names with
// nothing left slug to "sequence".
func Slug(s string) string {
	// Chains buffer state, so each call needs its own.
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	out := strings.Trim(slugUnsafe.ReplaceAllString(folded, "_"), "_")
	if len(out) > 50 {
		out = out[:50]
	}
	if out == "" {
		return "sequence"
	}
	return out
}

func (l *Library) sequenceID(name string) string {
	suffix := strings.ReplaceAll(l.newID(), "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return Slug(name) + "_" + suffix
}
