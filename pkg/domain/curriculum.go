package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Curriculum groups lessons authored by an instructor.
type Curriculum struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name" validate:"required"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty"`
	Notes     string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	FocusTags []string `json:"focusTags" yaml:"focusTags"`
	CreatedAt int64    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64    `json:"updatedAt" yaml:"updatedAt"`
}

const (
	MinLessonOrder = 1
	MaxLessonOrder = 100
)

// Lesson is an ordered slot in a curriculum holding technique ids.
type Lesson struct {
	ID              string   `json:"id" yaml:"id"`
	CurriculumID    string   `json:"curriculumId" yaml:"curriculumId"`
	Order           int      `json:"order" yaml:"order" validate:"min=1,max=100"`
	Title           string   `json:"title" yaml:"title"`
	Notes           string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty" validate:"omitempty,min=0"`
	Items           []string `json:"items" yaml:"items"`
	CreatedAt       int64    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       int64    `json:"updatedAt" yaml:"updatedAt"`
}

// DisplayTitle returns the title, or "Lesson {order}" when blank.
func (l *Lesson) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return fmt.Sprintf("Lesson %d", l.Order)
}

// AddItem appends techniqueID unless already present.
func (l *Lesson) AddItem(techniqueID string) bool {
	if techniqueID == "" || slices.Contains(l.Items, techniqueID) {
		return false
	}
	l.Items = append(l.Items, techniqueID)
	return true
}

// RemoveItem removes every occurrence of techniqueID.
func (l *Lesson) RemoveItem(techniqueID string) bool {
	n := len(l.Items)
	l.Items = slices.DeleteFunc(l.Items, func(id string) bool { return id == techniqueID })
	return len(l.Items) != n
}

// ClampOrder bounds order to the accepted lesson range.
func ClampOrder(order int) int {
	return min(max(order, MinLessonOrder), MaxLessonOrder)
}

// MovementSlots is the number of movement steps a technique record carries.
const MovementSlots = 6

// Technique is a single recorded technique.
type Technique struct {
	ID               string                `json:"id" yaml:"id"`
	SourceTab        string                `json:"sourceTab,omitempty" yaml:"sourceTab,omitempty"`
	Name             string                `json:"name" yaml:"name" validate:"required"`
	Objective        string                `json:"objective,omitempty" yaml:"objective,omitempty"`
	StartingPosition string                `json:"startingPosition,omitempty" yaml:"startingPosition,omitempty"`
	LeftHand         string                `json:"leftHand,omitempty" yaml:"leftHand,omitempty"`
	RightHand        string                `json:"rightHand,omitempty" yaml:"rightHand,omitempty"`
	LeftFoot         string                `json:"leftFoot,omitempty" yaml:"leftFoot,omitempty"`
	RightFoot        string                `json:"rightFoot,omitempty" yaml:"rightFoot,omitempty"`
	Movements        [MovementSlots]string `json:"movements" yaml:"movements"`
	Notes            string                `json:"notes,omitempty" yaml:"notes,omitempty"`
	Study            string                `json:"study,omitempty" yaml:"study,omitempty"`
	Tags             []string              `json:"tags" yaml:"tags"`
	Instructor       string                `json:"instructor,omitempty" yaml:"instructor,omitempty"`
	CreatedAt        int64                 `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        int64                 `json:"updatedAt" yaml:"updatedAt"`
	LegacyNumbering  string                `json:"legacyNumbering,omitempty" yaml:"legacyNumbering,omitempty"`
}

// SortLessons orders lessons by Order, ties broken by id.
func SortLessons(lessons []*Lesson) {
	slices.SortFunc(lessons, func(a, b *Lesson) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.ID, b.ID))
	})
}

// SortCurricula orders curricula by name, case-insensitively.
func SortCurricula(cs []*Curriculum) {
	slices.SortFunc(cs, func(a, b *Curriculum) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
}

// SortTechniques orders techniques by name, case-insensitively.
func SortTechniques(ts []*Technique) {
	slices.SortFunc(ts, func(a, b *Technique) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
}
