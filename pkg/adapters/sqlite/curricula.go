package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tatami/pkg/domain"
)

func (s *Store) SaveCurriculum(ctx context.Context, c *domain.Curriculum) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal curriculum: %w", err)
	}
	// Upsert rather than REPLACE, which would cascade-delete the lessons.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO curricula (id, name, doc) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, doc = excluded.doc`,
		c.ID, c.Name, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save curriculum: %w", err)
	}
	return nil
}

func (s *Store) LoadCurriculum(ctx context.Context, id string) (*domain.Curriculum, error) {
	var c domain.Curriculum
	if err := s.getDoc(ctx, &c, domain.ErrCurriculumNotFound, `SELECT doc FROM curricula WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCurricula(ctx context.Context) ([]*domain.Curriculum, error) {
	out := []*domain.Curriculum{}
	err := s.listDocs(ctx, func(doc []byte) error {
		var c domain.Curriculum
		if err := json.Unmarshal(doc, &c); err != nil {
			return err
		}
		out = append(out, &c)
		return nil
	}, `SELECT doc FROM curricula ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list curricula: %w", err)
	}
	return out, nil
}

// DeleteCurriculum removes the curriculum; its lessons cascade.
func (s *Store) DeleteCurriculum(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM curricula WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete curriculum: %w", err)
	}
	return nil
}

// SaveLesson upserts a lesson. The curriculum must exist.
func (s *Store) SaveLesson(ctx context.Context, l *domain.Lesson) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal lesson: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lessons (curriculum_id, id, ord, doc) VALUES (?, ?, ?, ?)
		ON CONFLICT (curriculum_id, id) DO UPDATE SET ord = excluded.ord, doc = excluded.doc`,
		l.CurriculumID, l.ID, l.Order, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save lesson: %w", err)
	}
	return nil
}

func (s *Store) LoadLesson(ctx context.Context, curriculumID, lessonID string) (*domain.Lesson, error) {
	var l domain.Lesson
	err := s.getDoc(ctx, &l, domain.ErrLessonNotFound,
		`SELECT doc FROM lessons WHERE curriculum_id = ? AND id = ?`, curriculumID, lessonID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) ListLessons(ctx context.Context, curriculumID string) ([]*domain.Lesson, error) {
	out := []*domain.Lesson{}
	err := s.listDocs(ctx, func(doc []byte) error {
		var l domain.Lesson
		if err := json.Unmarshal(doc, &l); err != nil {
			return err
		}
		out = append(out, &l)
		return nil
	}, `SELECT doc FROM lessons WHERE curriculum_id = ? ORDER BY ord, id`, curriculumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteLesson(ctx context.Context, curriculumID, lessonID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE curriculum_id = ? AND id = ?`, curriculumID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}

func (s *Store) SaveTechnique(ctx context.Context, t *domain.Technique) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal technique: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO techniques (id, name, doc) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, doc = excluded.doc`,
		t.ID, t.Name, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save technique: %w", err)
	}
	return nil
}

func (s *Store) LoadTechnique(ctx context.Context, id string) (*domain.Technique, error) {
	var t domain.Technique
	if err := s.getDoc(ctx, &t, domain.ErrTechniqueNotFound, `SELECT doc FROM techniques WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTechniques(ctx context.Context) ([]*domain.Technique, error) {
	out := []*domain.Technique{}
	err := s.listDocs(ctx, func(doc []byte) error {
		var t domain.Technique
		if err := json.Unmarshal(doc, &t); err != nil {
			return err
		}
		out = append(out, &t)
		return nil
	}, `SELECT doc FROM techniques ORDER BY lower(name), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list techniques: %w", err)
	}
	return out, nil
}
