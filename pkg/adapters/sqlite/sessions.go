package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
)

// Sessions returns a ports.SessionStore view over the same database.
func (s *Store) Sessions() *SessionStore {
	return &SessionStore{store: s}
}

// SessionStore keeps quiz sessions in the sessions table. It is a separate
// type because its method set collides with the sequence methods on Store.
type SessionStore struct {
	store *Store
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, state *domain.QuizState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, updated_at, doc) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at, doc = excluded.doc`,
		sessionID, time.Now().UnixMilli(), string(doc))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.QuizState, error) {
	var state domain.QuizState
	if err := s.store.getDoc(ctx, &state, domain.ErrSessionNotFound, `SELECT doc FROM sessions WHERE id = ?`, sessionID); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
