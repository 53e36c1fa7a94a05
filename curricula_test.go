package tatami_test

import (
	"context"
	"testing"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_CurriculumDefaults(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	blank, err := lib.CreateCurriculum(ctx, domain.Curriculum{})
	require.NoError(t, err)
	assert.Equal(t, tatami.DefaultCurriculumName, blank.Name)
	assert.Equal(t, tatami.DefaultCurriculumLabel, blank.Label)

	named, err := lib.CreateCurriculum(ctx, domain.Curriculum{Name: "Fundamentals", FocusTags: []string{"Guard, Pass"}})
	require.NoError(t, err)
	assert.Equal(t, "Fundamentals", named.Label)
	assert.Equal(t, []string{"guard, pass"}, named.FocusTags)

	list, err := lib.ListCurricula(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Fundamentals", list[0].Name)

	updated, err := lib.UpdateCurriculum(ctx, named.ID, func(c *domain.Curriculum) {
		c.Notes = "Tuesday class"
	})
	require.NoError(t, err)
	assert.Equal(t, named.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, named.UpdatedAt)
}

func TestLibrary_Lessons(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	_, err := lib.CreateLesson(ctx, "missing", domain.Lesson{})
	assert.ErrorIs(t, err, domain.ErrCurriculumNotFound)

	c, err := lib.CreateCurriculum(ctx, domain.Curriculum{Name: "Fundamentals"})
	require.NoError(t, err)

	late, err := lib.CreateLesson(ctx, c.ID, domain.Lesson{Order: 500, Title: "Review"})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxLessonOrder, late.Order)

	first, err := lib.CreateLesson(ctx, c.ID, domain.Lesson{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, "Lesson 1", first.DisplayTitle())
	assert.Equal(t, []string{}, first.Items)

	lessons, err := lib.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, first.ID, lessons[0].ID)

	tech, err := lib.SaveTechnique(ctx, domain.Technique{Name: "Knee Cut", Tags: []string{"Pass"}})
	require.NoError(t, err)

	lesson, err := lib.AddTechniqueToLesson(ctx, c.ID, first.ID, tech.ID)
	require.NoError(t, err)
	lesson, err = lib.AddTechniqueToLesson(ctx, c.ID, first.ID, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{tech.ID}, lesson.Items)

	bundle, err := lib.CurriculumBundle(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, bundle.Curriculum.ID)
	assert.Len(t, bundle.Lessons, 2)
	assert.Contains(t, bundle.Techniques, tech.ID)

	files, err := lib.ExportCurriculum(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, string(files[0].Data), "Knee Cut")

	lesson, err = lib.RemoveTechniqueFromLesson(ctx, c.ID, first.ID, tech.ID)
	require.NoError(t, err)
	assert.Empty(t, lesson.Items)

	require.NoError(t, lib.DeleteCurriculum(ctx, c.ID))
	lessons, err = lib.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestLibrary_SaveTechniqueKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	first, err := lib.SaveTechnique(ctx, domain.Technique{Name: "Knee Cut"})
	require.NoError(t, err)

	second, err := lib.SaveTechnique(ctx, domain.Technique{ID: first.ID, Name: "Knee Slice"})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)

	_, err = lib.SaveTechnique(ctx, domain.Technique{})
	assert.Error(t, err, "name is required")

	got, err := lib.GetTechnique(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Knee Slice", got.Name)
}
