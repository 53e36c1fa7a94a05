package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
)

// Save upserts a sequence.
func (s *Store) Save(ctx context.Context, seq *domain.Sequence) error {
	doc, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}

	archived := 0
	if seq.IsArchived {
		archived = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sequences (id, name, is_archived, updated_at, doc) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			is_archived = excluded.is_archived,
			updated_at = excluded.updated_at,
			doc = excluded.doc`,
		seq.ID, seq.Name, archived, seq.UpdatedAt, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	return nil
}

// Load returns a sequence or domain.ErrSequenceNotFound.
func (s *Store) Load(ctx context.Context, id string) (*domain.Sequence, error) {
	var doc sequenceDoc
	if err := s.getDoc(ctx, &doc, domain.ErrSequenceNotFound, `SELECT doc FROM sequences WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return doc.seq, nil
}

// sequenceDoc reads a stored row through domain.ParseSequenceJSON, so rows
// written with legacy cues load with their actions and key ideas.
type sequenceDoc struct{ seq *domain.Sequence }

func (d *sequenceDoc) UnmarshalJSON(data []byte) error {
	seq, err := domain.ParseSequenceJSON(data)
	if err != nil {
		return err
	}
	d.seq = seq
	return nil
}

// Delete removes a sequence.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sequences WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sequence: %w", err)
	}
	return nil
}

// List returns matching sequences, newest first. Tags are matched on the
// decoded document.
func (s *Store) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Sequence, error) {
	query := `SELECT doc FROM sequences`
	if !opts.IncludeArchived {
		query += ` WHERE is_archived = 0`
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	out := []*domain.Sequence{}
	err := s.listDocs(ctx, func(doc []byte) error {
		seq, err := domain.ParseSequenceJSON(doc)
		if err != nil {
			return err
		}
		if opts.Match(seq) {
			out = append(out, seq)
		}
		return nil
	}, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}
	return out, nil
}

// FetchSequence implements ports.SequenceSource.
func (s *Store) FetchSequence(ctx context.Context, id string) (*domain.Sequence, error) {
	return s.Load(ctx, id)
}

// ListSequenceIDs implements ports.SequenceSource.
func (s *Store) ListSequenceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sequences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequence ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sequence id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
