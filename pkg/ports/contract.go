package ports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSuffix() string {
	return time.Now().Format("20060102150405.000000000")
}

func contractSequence(id, tag string, updatedAt int64) *domain.Sequence {
	w := 3.0
	return &domain.Sequence{
		ID:        id,
		Name:      "Contract " + id,
		Hub:       "Hub",
		Tags:      []string{tag},
		KeyIdeas:  []string{"Head position **first**"},
		PhaseGate: domain.PhaseGates(),
		Nodes: []domain.Node{
			{ID: "HUB", Label: "Hub", IsHub: true, Actions: []string{"Crossface"}, PhaseGates: []domain.PhaseGate{domain.PhaseControl}},
			{ID: "END", Label: "Side control", PositionTags: []string{"side"}},
		},
		Edges: []domain.Edge{
			{FromID: "HUB", ToID: "END", OpponentReaction: "Frames", MyResponse: "Pass", Priority: domain.PriorityA, FreqWeight: &w},
		},
		CreatedBy:   "contract",
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
		StorageMode: domain.StorageModeEmbedded,
	}
}

// RunSequenceStoreContract runs a suite of tests to verify that a SequenceStore
// implementation adheres to the defined interface contract.
func RunSequenceStoreContract(t *testing.T, store SequenceStore) {
	ctx := context.Background()
	suffix := contractSuffix()
	tag := "contract-" + suffix

	t.Run("Save and Load", func(t *testing.T) {
		id := "seq-load-" + suffix
		seq := contractSequence(id, tag+"-load", 1000)

		require.NoError(t, store.Save(ctx, seq), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, seq.Name, loaded.Name)
		assert.Equal(t, seq.Tags, loaded.Tags)
		assert.Equal(t, seq.KeyIdeas, loaded.KeyIdeas)
		assert.Equal(t, seq.PhaseGate, loaded.PhaseGate)
		assert.Equal(t, seq.Nodes, loaded.Nodes)
		assert.Equal(t, seq.Edges, loaded.Edges)
		assert.Equal(t, seq.UpdatedAt, loaded.UpdatedAt)
		assert.Equal(t, domain.StorageModeEmbedded, loaded.StorageMode)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, domain.ErrSequenceNotFound)
	})

	t.Run("Last Writer Wins", func(t *testing.T) {
		id := "seq-lww-" + suffix
		require.NoError(t, store.Save(ctx, contractSequence(id, tag+"-lww", 1000)))

		second := contractSequence(id, tag+"-lww", 2000)
		second.Name = "Renamed"
		second.Nodes = second.Nodes[:1]
		second.Edges = []domain.Edge{}
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", loaded.Name)
		assert.Len(t, loaded.Nodes, 1)
		assert.Empty(t, loaded.Edges)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		id := "seq-iso-" + suffix
		require.NoError(t, store.Save(ctx, contractSequence(id, tag+"-iso", 1000)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Nodes[0].Label = "mutated"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Hub", again.Nodes[0].Label)
	})

	t.Run("List Ordered By UpdatedAt", func(t *testing.T) {
		listTag := tag + "-list"
		older := contractSequence("seq-old-"+suffix, listTag, 1000)
		newer := contractSequence("seq-new-"+suffix, listTag, 3000)
		middle := contractSequence("seq-mid-"+suffix, listTag, 2000)
		archived := contractSequence("seq-arc-"+suffix, listTag, 4000)
		archived.IsArchived = true
		other := contractSequence("seq-other-"+suffix, tag+"-other", 5000)

		for _, s := range []*domain.Sequence{older, newer, middle, archived, other} {
			require.NoError(t, store.Save(ctx, s))
		}

		list, err := store.List(ctx, ListOptions{Tag: listTag})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, middle.ID, list[1].ID)
		assert.Equal(t, older.ID, list[2].ID)

		withArchived, err := store.List(ctx, ListOptions{Tag: listTag, IncludeArchived: true})
		require.NoError(t, err)
		require.Len(t, withArchived, 4)
		assert.Equal(t, archived.ID, withArchived[0].ID)

		all, err := store.List(ctx, ListOptions{})
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, s := range all {
			ids = append(ids, s.ID)
		}
		assert.Contains(t, ids, other.ID)
		assert.NotContains(t, ids, archived.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		id := "seq-del-" + suffix
		require.NoError(t, store.Save(ctx, contractSequence(id, tag+"-del", 1000)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSequenceNotFound, "Load after Delete should return ErrSequenceNotFound")

		list, err := store.List(ctx, ListOptions{Tag: tag + "-del", IncludeArchived: true})
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice is not an error")
	})
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + contractSuffix()

	newState := func(id string) *domain.QuizState {
		w := 2.0
		state := domain.NewQuizState(id, "seq-1")
		state.Status = domain.QuizAtNode
		state.CurrentNodeID = "HUB"
		state.Candidate = &domain.Edge{FromID: "HUB", ToID: "END", OpponentReaction: "Frames", FreqWeight: &w}
		state.History = []string{"HUB"}
		return state
	}

	t.Run("Save and Load", func(t *testing.T) {
		state := newState(sessionID)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, state.SequenceID, loaded.SequenceID)
		assert.Equal(t, state.Status, loaded.Status)
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.History, loaded.History)
		require.NotNil(t, loaded.Candidate)
		assert.True(t, state.Candidate.Same(*loaded.Candidate))
		assert.True(t, state.StartedAt.Equal(loaded.StartedAt), "timestamps survive persistence")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newState(id1))
		_ = store.Save(ctx, id2, newState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunCurriculumStoreContract verifies a CurriculumStore implementation.
func RunCurriculumStoreContract(t *testing.T, store CurriculumStore) {
	ctx := context.Background()
	suffix := contractSuffix()

	t.Run("Curricula", func(t *testing.T) {
		b := &domain.Curriculum{ID: "cur-b-" + suffix, Name: "zz Beta " + suffix, FocusTags: []string{"guard"}}
		a := &domain.Curriculum{ID: "cur-a-" + suffix, Name: "zz Alpha " + suffix, FocusTags: []string{}}
		require.NoError(t, store.SaveCurriculum(ctx, b))
		require.NoError(t, store.SaveCurriculum(ctx, a))

		loaded, err := store.LoadCurriculum(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.Name, loaded.Name)
		assert.Equal(t, []string{"guard"}, loaded.FocusTags)

		list, err := store.ListCurricula(ctx)
		require.NoError(t, err)
		var ours []string
		for _, c := range list {
			if c.ID == a.ID || c.ID == b.ID {
				ours = append(ours, c.ID)
			}
		}
		assert.Equal(t, []string{a.ID, b.ID}, ours, "curricula are ordered by name")

		_, err = store.LoadCurriculum(ctx, "missing-"+suffix)
		assert.ErrorIs(t, err, domain.ErrCurriculumNotFound)
	})

	t.Run("Lessons", func(t *testing.T) {
		cid := "cur-lessons-" + suffix
		require.NoError(t, store.SaveCurriculum(ctx, &domain.Curriculum{ID: cid, Name: "Lessons " + suffix}))

		for _, order := range []int{3, 1, 2} {
			l := &domain.Lesson{ID: fmt.Sprintf("l%d", order), CurriculumID: cid, Order: order, Items: []string{}}
			require.NoError(t, store.SaveLesson(ctx, l))
		}

		lessons, err := store.ListLessons(ctx, cid)
		require.NoError(t, err)
		require.Len(t, lessons, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{lessons[0].Order, lessons[1].Order, lessons[2].Order})

		l2, err := store.LoadLesson(ctx, cid, "l2")
		require.NoError(t, err)
		l2.AddItem("tech-1")
		require.NoError(t, store.SaveLesson(ctx, l2))

		again, err := store.LoadLesson(ctx, cid, "l2")
		require.NoError(t, err)
		assert.Equal(t, []string{"tech-1"}, again.Items)

		require.NoError(t, store.DeleteLesson(ctx, cid, "l3"))
		_, err = store.LoadLesson(ctx, cid, "l3")
		assert.ErrorIs(t, err, domain.ErrLessonNotFound)

		require.NoError(t, store.DeleteCurriculum(ctx, cid))
		_, err = store.LoadCurriculum(ctx, cid)
		assert.ErrorIs(t, err, domain.ErrCurriculumNotFound)
		_, err = store.LoadLesson(ctx, cid, "l1")
		assert.True(t, errors.Is(err, domain.ErrLessonNotFound), "lessons go with their curriculum")
	})

	t.Run("Techniques", func(t *testing.T) {
		tech := &domain.Technique{
			ID:        "tech-" + suffix,
			Name:      "Knee Cut " + suffix,
			Objective: "Pass half guard",
			Movements: [domain.MovementSlots]string{"Underhook", "Crossface"},
			Tags:      []string{"passing", "half guard"},
		}
		require.NoError(t, store.SaveTechnique(ctx, tech))

		loaded, err := store.LoadTechnique(ctx, tech.ID)
		require.NoError(t, err)
		assert.Equal(t, tech.Name, loaded.Name)
		assert.Equal(t, tech.Movements, loaded.Movements)
		assert.Equal(t, tech.Tags, loaded.Tags)

		list, err := store.ListTechniques(ctx)
		require.NoError(t, err)
		found := false
		for _, item := range list {
			found = found || item.ID == tech.ID
		}
		assert.True(t, found)

		_, err = store.LoadTechnique(ctx, "missing-"+suffix)
		assert.ErrorIs(t, err, domain.ErrTechniqueNotFound)
	})
}
