package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
)

// TechniqueHeader is the fixed column layout of the techniques sheet.
var TechniqueHeader = []string{
	"Technique ID", "SourceTab", "Technique", "Objective", "Starting position",
	"Left hand", "Right hand", "Left foot", "Right foot",
	"Movement 1", "Movement 2", "Movement 3", "Movement 4", "Movement 5", "Movement 6",
	"Notes", "Study", "Tags", "CreatedAt", "LastUpdated", "Legacy numbering",
}

var lessonHeader = []string{
	"Curriculum", "Lesson Order", "Lesson Title", "Duration (min)",
	"Technique ID", "Technique Name", "Tags", "Objective", "Notes",
}

const tagSeparator = " | "

// Techniques renders the techniques sheet.
func Techniques(techniques []*domain.Technique, now time.Time) (File, error) {
	rows := [][]string{TechniqueHeader}
	for _, t := range techniques {
		row := []string{
			t.ID, t.SourceTab, t.Name, t.Objective, t.StartingPosition,
			t.LeftHand, t.RightHand, t.LeftFoot, t.RightFoot,
		}
		row = append(row, t.Movements[:]...)
		row = append(row,
			t.Notes,
			t.Study,
			strings.Join(t.Tags, tagSeparator),
			wallMillis(t.CreatedAt),
			wallMillis(t.UpdatedAt),
			t.LegacyNumbering,
		)
		rows = append(rows, row)
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return File{}, err
	}
	return File{Name: "techniques_" + DateStamp(now) + ".csv", Data: data}, nil
}

// CurriculumBundle is a curriculum with its lessons and the techniques they
// reference, keyed by id.
type CurriculumBundle struct {
	Curriculum *domain.Curriculum
	Lessons    []*domain.Lesson
	Techniques map[string]*domain.Technique
}

func lessonRows(curriculumName string, l *domain.Lesson, techniques map[string]*domain.Technique) [][]string {
	duration := ""
	if l.DurationMinutes != nil {
		duration = strconv.Itoa(*l.DurationMinutes)
	}
	order := strconv.Itoa(l.Order)

	if len(l.Items) == 0 {
		return [][]string{{curriculumName, order, l.Title, duration, "", "", "", "", l.Notes}}
	}

	rows := make([][]string, 0, len(l.Items))
	for _, id := range l.Items {
		var name, tags, objective, notes string
		if t, ok := techniques[id]; ok && t != nil {
			name = t.Name
			tags = strings.Join(t.Tags, tagSeparator)
			objective = t.Objective
			notes = t.Notes
		}
		rows = append(rows, []string{curriculumName, order, l.Title, duration, id, name, tags, objective, notes})
	}
	return rows
}

// CurriculumCSV renders one row per lesson item, or a notes row for empty lessons.
func CurriculumCSV(b CurriculumBundle) (File, error) {
	rows := [][]string{lessonHeader}
	for _, l := range b.Lessons {
		rows = append(rows, lessonRows(b.Curriculum.Name, l, b.Techniques)...)
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return File{}, err
	}
	return File{Name: curriculumFileName(b.Curriculum, ".csv"), Data: data}, nil
}

// LessonCSV renders a single lesson. curriculumName may be empty.
func LessonCSV(l *domain.Lesson, techniques map[string]*domain.Technique, curriculumName string) (File, error) {
	rows := append([][]string{lessonHeader}, lessonRows(curriculumName, l, techniques)...)

	data, err := encodeCSV(rows)
	if err != nil {
		return File{}, err
	}
	return File{Name: lessonFileName(l, curriculumName, ".csv"), Data: data}, nil
}

type curriculumPayload struct {
	Type       string                       `json:"type"`
	Version    int                          `json:"version"`
	Curriculum *domain.Curriculum           `json:"curriculum"`
	Lessons    []*domain.Lesson             `json:"lessons"`
	Techniques map[string]*domain.Technique `json:"techniques"`
}

type lessonPayload struct {
	Type           string                       `json:"type"`
	Version        int                          `json:"version"`
	CurriculumName string                       `json:"curriculumName,omitempty"`
	Lesson         *domain.Lesson               `json:"lesson"`
	Techniques     map[string]*domain.Technique `json:"techniques"`
}

// BundleVersion is written into every JSON bundle.
const BundleVersion = 1

// CurriculumJSON renders the self-contained curriculum bundle.
func CurriculumJSON(b CurriculumBundle) (File, error) {
	data, err := encodeJSON(curriculumPayload{
		Type:       "curriculum",
		Version:    BundleVersion,
		Curriculum: b.Curriculum,
		Lessons:    nonNil(b.Lessons),
		Techniques: nonNilMap(b.Techniques),
	})
	if err != nil {
		return File{}, err
	}
	return File{Name: curriculumFileName(b.Curriculum, ".json"), Data: data}, nil
}

// LessonJSON renders the self-contained lesson bundle.
func LessonJSON(l *domain.Lesson, techniques map[string]*domain.Technique, curriculumName string) (File, error) {
	data, err := encodeJSON(lessonPayload{
		Type:           "lesson",
		Version:        BundleVersion,
		CurriculumName: curriculumName,
		Lesson:         l,
		Techniques:     nonNilMap(techniques),
	})
	if err != nil {
		return File{}, err
	}
	return File{Name: lessonFileName(l, curriculumName, ".json"), Data: data}, nil
}

func curriculumFileName(c *domain.Curriculum, ext string) string {
	return "curriculum_" + SafeName(c.Name) + "_" + c.ID + ext
}

func lessonFileName(l *domain.Lesson, curriculumName, ext string) string {
	prefix := ""
	if curriculumName != "" {
		prefix = SafeName(curriculumName) + "__"
	}
	return prefix + "lesson_" + SafeName(l.Title) + "_" + l.ID + ext
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
