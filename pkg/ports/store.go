package ports

import (
	"context"

	"github.com/aretw0/tatami/pkg/domain"
)

// ListOptions filters sequence listings.
type ListOptions struct {
	// Tag keeps only sequences carrying this (normalized) tag.
	Tag string
	// IncludeArchived also returns archived sequences.
	IncludeArchived bool
}

// Match reports whether seq passes the filter.
func (o ListOptions) Match(seq *domain.Sequence) bool {
	if seq.IsArchived && !o.IncludeArchived {
		return false
	}
	if o.Tag != "" && !seq.HasTag(o.Tag) {
		return false
	}
	return true
}

// SequenceStore persists sequence documents. Writes replace the whole
// document; the last writer wins.
type SequenceStore interface {
	// Save upserts the sequence under seq.ID.
	Save(ctx context.Context, seq *domain.Sequence) error

	// Load retrieves a sequence by id.
	// Returns domain.ErrSequenceNotFound if the sequence does not exist.
	Load(ctx context.Context, id string) (*domain.Sequence, error)

	// Delete removes a sequence. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the matching sequences ordered by UpdatedAt, newest first.
	List(ctx context.Context, opts ListOptions) ([]*domain.Sequence, error)
}

// SessionStore defines the interface for persisting quiz sessions.
// This allows a quiz to be resumed across processes ("Stop & Resume").
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.QuizState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.QuizState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of the stored sessions.
	List(ctx context.Context) ([]string, error)
}

// CurriculumStore persists curricula, their lessons and the technique records
// lessons point at.
type CurriculumStore interface {
	SaveCurriculum(ctx context.Context, c *domain.Curriculum) error
	// LoadCurriculum returns domain.ErrCurriculumNotFound for unknown ids.
	LoadCurriculum(ctx context.Context, id string) (*domain.Curriculum, error)
	// ListCurricula returns all curricula ordered by name.
	ListCurricula(ctx context.Context) ([]*domain.Curriculum, error)
	// DeleteCurriculum removes the curriculum and its lessons.
	DeleteCurriculum(ctx context.Context, id string) error

	SaveLesson(ctx context.Context, l *domain.Lesson) error
	// LoadLesson returns domain.ErrLessonNotFound for unknown ids.
	LoadLesson(ctx context.Context, curriculumID, lessonID string) (*domain.Lesson, error)
	// ListLessons returns the lessons of a curriculum ordered by Order.
	ListLessons(ctx context.Context, curriculumID string) ([]*domain.Lesson, error)
	DeleteLesson(ctx context.Context, curriculumID, lessonID string) error

	SaveTechnique(ctx context.Context, t *domain.Technique) error
	// LoadTechnique returns domain.ErrTechniqueNotFound for unknown ids.
	LoadTechnique(ctx context.Context, id string) (*domain.Technique, error)
	// ListTechniques returns all techniques ordered by name.
	ListTechniques(ctx context.Context) ([]*domain.Technique, error)
}
