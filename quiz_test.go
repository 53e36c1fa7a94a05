package tatami_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_QuizFlow(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	seq, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)

	view, err := lib.StartQuiz(ctx, seq.ID)
	require.NoError(t, err)
	sessionID := view.State.SessionID
	require.NotEmpty(t, sessionID)

	assert.Equal(t, domain.QuizAtNode, view.State.Status)
	assert.Equal(t, "HUB", view.Node.ID)
	require.Len(t, view.Options, 2)
	assert.Equal(t, "B1", view.Options[0].Edge.ToID)
	assert.Equal(t, "SIDE", view.Options[1].Edge.ToID)
	require.NotNil(t, view.Candidate, "rand 0 draws the first edge")
	assert.Equal(t, "B1", view.Candidate.ToID)
	assert.True(t, view.Options[0].Suggested)
	assert.Equal(t, []domain.Fragment{{Text: "Underhook", Emphasized: true}, {Text: " first"}}, view.Actions[0])

	view, err = lib.Choose(ctx, sessionID, 0)
	require.NoError(t, err)
	assert.Equal(t, "B1", view.Node.ID)
	assert.Equal(t, []string{"HUB", "B1"}, view.State.History)

	view, err = lib.Choose(ctx, sessionID, 0)
	require.NoError(t, err)
	assert.Equal(t, "SIDE", view.Node.ID)
	assert.True(t, view.Finisher)
	assert.Nil(t, view.Candidate)
	assert.Empty(t, view.Options)

	_, err = lib.Choose(ctx, sessionID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	view, err = lib.Quiz(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "SIDE", view.State.CurrentNodeID)

	view, err = lib.RestartQuiz(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "HUB", view.State.CurrentNodeID)
	assert.Equal(t, []string{"HUB"}, view.State.History)

	view, err = lib.EndQuiz(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuizFinished, view.State.Status)
	assert.Empty(t, view.Options)

	_, err = lib.Choose(ctx, sessionID, 0)
	assert.ErrorIs(t, err, domain.ErrQuizNotStarted)

	ids, err := lib.ListQuizzes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sessionID}, ids)

	require.NoError(t, lib.DeleteQuiz(ctx, sessionID))
	_, err = lib.Quiz(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLibrary_QuizErrors(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	_, err := lib.StartQuiz(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)

	empty, _, err := lib.CreateSequence(ctx, &domain.Sequence{Name: "Empty"})
	require.NoError(t, err)
	_, err = lib.StartQuiz(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrEmptySequence)

	_, err = lib.Choose(ctx, "nope", 0)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLibrary_QuizMalformedEdge(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	in := halfButterfly()
	in.Edges = []domain.Edge{{FromID: "HUB", ToID: "GHOST", OpponentReaction: "Vanishes"}}
	seq, refs, err := lib.CreateSequence(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, refs)

	view, err := lib.StartQuiz(ctx, seq.ID)
	require.NoError(t, err)

	view, err = lib.Choose(ctx, view.State.SessionID, 0)
	require.NoError(t, err, "missing targets degrade to a finisher")
	assert.True(t, view.State.Malformed)
	assert.True(t, view.Finisher)
	assert.Nil(t, view.Node)
}

func TestLibrary_QuizSeesLatestSequence(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	seq, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)
	view, err := lib.StartQuiz(ctx, seq.ID)
	require.NoError(t, err)

	_, _, err = lib.PatchSequence(ctx, seq.ID, func(s *domain.Sequence) error {
		s.Edges = append(s.Edges, domain.Edge{FromID: "HUB", ToID: "HUB", OpponentReaction: "Stalls"})
		return nil
	})
	require.NoError(t, err)

	view, err = lib.Quiz(ctx, view.State.SessionID)
	require.NoError(t, err)
	assert.Len(t, view.Options, 3)
}

func TestLibrary_ConcurrentChoose(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, tatami.WithIDGenerator(func() string { return "loop-session" }))

	seq, _, err := lib.CreateSequence(ctx, &domain.Sequence{
		ID:    "loop",
		Name:  "Loop",
		Nodes: []domain.Node{{ID: "A", IsHub: true}},
		Edges: []domain.Edge{{FromID: "A", ToID: "A"}},
	})
	require.NoError(t, err)
	view, err := lib.StartQuiz(ctx, seq.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lib.Choose(ctx, view.State.SessionID, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := lib.QuizState(ctx, view.State.SessionID)
	require.NoError(t, err)
	assert.Len(t, state.History, 11)
}

func TestLibrary_OpenQuiz(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	seq, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)

	view, resumed, err := lib.OpenQuiz(ctx, "cli", seq.ID)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, "cli", view.State.SessionID)
	assert.Equal(t, "HUB", view.State.CurrentNodeID)

	_, err = lib.Choose(ctx, "cli", 1)
	require.NoError(t, err)

	view, resumed, err = lib.OpenQuiz(ctx, "cli", "ignored")
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, "SIDE", view.State.CurrentNodeID)
	assert.Equal(t, seq.ID, view.State.SequenceID)

	_, _, err = lib.OpenQuiz(ctx, "other", "missing")
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)
}
