package tatami

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/tatami/internal/validator"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/export"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/aretw0/tatami/pkg/tags"
)

const (
	DefaultCurriculumName  = "Untitled"
	DefaultCurriculumLabel = "General"
)

// CreateCurriculum stores a new curriculum, filling name and label defaults.
func (l *Library) CreateCurriculum(ctx context.Context, c domain.Curriculum) (*domain.Curriculum, error) {
	if c.ID == "" {
		c.ID = l.newID()
	}
	if c.Label == "" {
		c.Label = c.Name
	}
	if c.Label == "" {
		c.Label = DefaultCurriculumLabel
	}
	if c.Name == "" {
		c.Name = DefaultCurriculumName
	}
	c.FocusTags = tags.NormalizeTags(c.FocusTags)
	now := l.nowMillis()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := l.curricula.SaveCurriculum(ctx, &c); err != nil {
		return nil, fmt.Errorf("failed to save curriculum: %w", err)
	}
	return &c, nil
}

// UpdateCurriculum applies fn to a stored curriculum and bumps updatedAt.
func (l *Library) UpdateCurriculum(ctx context.Context, id string, fn func(*domain.Curriculum)) (*domain.Curriculum, error) {
	c, err := l.curricula.LoadCurriculum(ctx, id)
	if err != nil {
		return nil, err
	}
	createdAt := c.CreatedAt
	fn(c)
	c.ID, c.CreatedAt = id, createdAt
	if c.Name == "" {
		c.Name = DefaultCurriculumName
	}
	c.FocusTags = tags.NormalizeTags(c.FocusTags)
	c.UpdatedAt = l.nowMillis()

	if err := l.curricula.SaveCurriculum(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save curriculum: %w", err)
	}
	return c, nil
}

func (l *Library) GetCurriculum(ctx context.Context, id string) (*domain.Curriculum, error) {
	return l.curricula.LoadCurriculum(ctx, id)
}

func (l *Library) ListCurricula(ctx context.Context) ([]*domain.Curriculum, error) {
	return l.curricula.ListCurricula(ctx)
}

// DeleteCurriculum removes the curriculum and its lessons.
func (l *Library) DeleteCurriculum(ctx context.Context, id string) error {
	return l.curricula.DeleteCurriculum(ctx, id)
}

// CreateLesson adds a lesson to an existing curriculum. Order is clamped
// to 1..100.
func (l *Library) CreateLesson(ctx context.Context, curriculumID string, lesson domain.Lesson) (*domain.Lesson, error) {
	if _, err := l.curricula.LoadCurriculum(ctx, curriculumID); err != nil {
		return nil, err
	}
	if lesson.ID == "" {
		lesson.ID = l.newID()
	}
	lesson.CurriculumID = curriculumID
	lesson.Order = domain.ClampOrder(lesson.Order)
	if lesson.Items == nil {
		lesson.Items = []string{}
	}
	now := l.nowMillis()
	lesson.CreatedAt, lesson.UpdatedAt = now, now

	if err := l.saveLesson(ctx, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson applies fn to a stored lesson.
func (l *Library) UpdateLesson(ctx context.Context, curriculumID, lessonID string, fn func(*domain.Lesson)) (*domain.Lesson, error) {
	lesson, err := l.curricula.LoadLesson(ctx, curriculumID, lessonID)
	if err != nil {
		return nil, err
	}
	createdAt := lesson.CreatedAt
	fn(lesson)
	lesson.ID, lesson.CurriculumID, lesson.CreatedAt = lessonID, curriculumID, createdAt
	lesson.Order = domain.ClampOrder(lesson.Order)
	if lesson.Items == nil {
		lesson.Items = []string{}
	}
	lesson.UpdatedAt = l.nowMillis()

	if err := l.saveLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (l *Library) ListLessons(ctx context.Context, curriculumID string) ([]*domain.Lesson, error) {
	return l.curricula.ListLessons(ctx, curriculumID)
}

func (l *Library) DeleteLesson(ctx context.Context, curriculumID, lessonID string) error {
	return l.curricula.DeleteLesson(ctx, curriculumID, lessonID)
}

// AddTechniqueToLesson appends techniqueID to the lesson once.
func (l *Library) AddTechniqueToLesson(ctx context.Context, curriculumID, lessonID, techniqueID string) (*domain.Lesson, error) {
	return l.UpdateLesson(ctx, curriculumID, lessonID, func(lesson *domain.Lesson) {
		lesson.AddItem(techniqueID)
	})
}

// RemoveTechniqueFromLesson drops techniqueID from the lesson.
func (l *Library) RemoveTechniqueFromLesson(ctx context.Context, curriculumID, lessonID, techniqueID string) (*domain.Lesson, error) {
	return l.UpdateLesson(ctx, curriculumID, lessonID, func(lesson *domain.Lesson) {
		lesson.RemoveItem(techniqueID)
	})
}

func (l *Library) saveLesson(ctx context.Context, lesson *domain.Lesson) error {
	if err := validator.ValidateStruct(lesson); err != nil {
		return err
	}
	if err := l.curricula.SaveLesson(ctx, lesson); err != nil {
		return fmt.Errorf("failed to save lesson: %w", err)
	}
	return nil
}

// SaveTechnique upserts a technique record.
func (l *Library) SaveTechnique(ctx context.Context, t domain.Technique) (*domain.Technique, error) {
	if t.ID == "" {
		t.ID = l.newID()
	}
	t.Tags = tags.NormalizeTags(t.Tags)
	now := l.nowMillis()
	if prev, err := l.curricula.LoadTechnique(ctx, t.ID); err == nil {
		t.CreatedAt = prev.CreatedAt
	} else if errors.Is(err, domain.ErrTechniqueNotFound) {
		t.CreatedAt = now
	} else {
		return nil, err
	}
	t.UpdatedAt = now

	if err := validator.ValidateStruct(&t); err != nil {
		return nil, err
	}
	if err := l.curricula.SaveTechnique(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to save technique: %w", err)
	}
	return &t, nil
}

func (l *Library) GetTechnique(ctx context.Context, id string) (*domain.Technique, error) {
	return l.curricula.LoadTechnique(ctx, id)
}

func (l *Library) ListTechniques(ctx context.Context) ([]*domain.Technique, error) {
	return l.curricula.ListTechniques(ctx)
}

// CurriculumBundle collects a curriculum with its lessons and every
// technique those lessons reference. Unknown technique ids are skipped.
func (l *Library) CurriculumBundle(ctx context.Context, curriculumID string) (export.CurriculumBundle, error) {
	c, err := l.curricula.LoadCurriculum(ctx, curriculumID)
	if err != nil {
		return export.CurriculumBundle{}, err
	}
	lessons, err := l.curricula.ListLessons(ctx, curriculumID)
	if err != nil {
		return export.CurriculumBundle{}, err
	}

	techniques := make(map[string]*domain.Technique)
	for _, lesson := range lessons {
		for _, id := range lesson.Items {
			if _, seen := techniques[id]; seen {
				continue
			}
			t, err := l.curricula.LoadTechnique(ctx, id)
			if errors.Is(err, domain.ErrTechniqueNotFound) {
				continue
			}
			if err != nil {
				return export.CurriculumBundle{}, err
			}
			techniques[id] = t
		}
	}
	return export.CurriculumBundle{Curriculum: c, Lessons: lessons, Techniques: techniques}, nil
}

// ExportSequences renders the sequence CSV files for every stored sequence,
// archived ones included.
func (l *Library) ExportSequences(ctx context.Context) ([]export.File, error) {
	seqs, err := l.sequences.List(ctx, ports.ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	return export.Sequences(seqs, l.now())
}

// ExportCurriculum renders the curriculum as CSV and JSON.
func (l *Library) ExportCurriculum(ctx context.Context, curriculumID string) ([]export.File, error) {
	b, err := l.CurriculumBundle(ctx, curriculumID)
	if err != nil {
		return nil, err
	}
	csvFile, err := export.CurriculumCSV(b)
	if err != nil {
		return nil, err
	}
	jsonFile, err := export.CurriculumJSON(b)
	if err != nil {
		return nil, err
	}
	return []export.File{csvFile, jsonFile}, nil
}

// ExportTechniques renders the technique catalogue CSV.
func (l *Library) ExportTechniques(ctx context.Context) (export.File, error) {
	ts, err := l.curricula.ListTechniques(ctx)
	if err != nil {
		return export.File{}, err
	}
	return export.Techniques(ts, l.now())
}
