package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/tatami/pkg/domain"
)

// CurriculumStore implements ports.CurriculumStore in memory.
type CurriculumStore struct {
	mu         sync.RWMutex
	curricula  map[string]domain.Curriculum
	lessons    map[string]map[string]domain.Lesson
	techniques map[string]domain.Technique
}

// NewCurriculumStore creates an empty store.
func NewCurriculumStore() *CurriculumStore {
	return &CurriculumStore{
		curricula:  make(map[string]domain.Curriculum),
		lessons:    make(map[string]map[string]domain.Lesson),
		techniques: make(map[string]domain.Technique),
	}
}

// deepCopy round-trips through JSON, mirroring what persistent stores return.
func deepCopy[T any](v T) T {
	var out T
	data, _ := json.Marshal(v)
	_ = json.Unmarshal(data, &out)
	return out
}

func (s *CurriculumStore) SaveCurriculum(ctx context.Context, c *domain.Curriculum) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curricula[c.ID] = deepCopy(*c)
	return nil
}

func (s *CurriculumStore) LoadCurriculum(ctx context.Context, id string) (*domain.Curriculum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.curricula[id]
	if !ok {
		return nil, domain.ErrCurriculumNotFound
	}
	c = deepCopy(c)
	return &c, nil
}

func (s *CurriculumStore) ListCurricula(ctx context.Context) ([]*domain.Curriculum, error) {
	s.mu.RLock()
	out := make([]*domain.Curriculum, 0, len(s.curricula))
	for _, c := range s.curricula {
		c = deepCopy(c)
		out = append(out, &c)
	}
	s.mu.RUnlock()

	domain.SortCurricula(out)
	return out, nil
}

func (s *CurriculumStore) DeleteCurriculum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.curricula, id)
	delete(s.lessons, id)
	return nil
}

func (s *CurriculumStore) SaveLesson(ctx context.Context, l *domain.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lessons[l.CurriculumID] == nil {
		s.lessons[l.CurriculumID] = make(map[string]domain.Lesson)
	}
	s.lessons[l.CurriculumID][l.ID] = deepCopy(*l)
	return nil
}

func (s *CurriculumStore) LoadLesson(ctx context.Context, curriculumID, lessonID string) (*domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[curriculumID][lessonID]
	if !ok {
		return nil, domain.ErrLessonNotFound
	}
	l = deepCopy(l)
	return &l, nil
}

func (s *CurriculumStore) ListLessons(ctx context.Context, curriculumID string) ([]*domain.Lesson, error) {
	s.mu.RLock()
	out := make([]*domain.Lesson, 0, len(s.lessons[curriculumID]))
	for _, l := range s.lessons[curriculumID] {
		l = deepCopy(l)
		out = append(out, &l)
	}
	s.mu.RUnlock()

	domain.SortLessons(out)
	return out, nil
}

func (s *CurriculumStore) DeleteLesson(ctx context.Context, curriculumID, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lessons[curriculumID], lessonID)
	return nil
}

func (s *CurriculumStore) SaveTechnique(ctx context.Context, t *domain.Technique) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.techniques[t.ID] = deepCopy(*t)
	return nil
}

func (s *CurriculumStore) LoadTechnique(ctx context.Context, id string) (*domain.Technique, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.techniques[id]
	if !ok {
		return nil, domain.ErrTechniqueNotFound
	}
	t = deepCopy(t)
	return &t, nil
}

func (s *CurriculumStore) ListTechniques(ctx context.Context) ([]*domain.Technique, error) {
	s.mu.RLock()
	out := make([]*domain.Technique, 0, len(s.techniques))
	for _, t := range s.techniques {
		t = deepCopy(t)
		out = append(out, &t)
	}
	s.mu.RUnlock()

	domain.SortTechniques(out)
	return out, nil
}
