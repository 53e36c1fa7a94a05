package tatami_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/internal/runtime"
	"github.com/aretw0/tatami/internal/validator"
	"github.com/aretw0/tatami/pkg/adapters/memory"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("abc%03d-ffff-4fff-8fff-000000000000", n)
	}
}

func newLibrary(t *testing.T, opts ...tatami.Option) (*tatami.Library, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	base := []tatami.Option{
		tatami.WithClock(c.now),
		tatami.WithIDGenerator(counterIDs()),
		tatami.WithRandSource(runtime.RandFunc(func() float64 { return 0 })),
	}
	return tatami.New(append(base, opts...)...), c
}

func halfButterfly() *domain.Sequence {
	return &domain.Sequence{
		Name: "Half-Butterfly Sweep",
		Tags: []string{" Guard ", "guard", "Half  Butterfly"},
		Nodes: []domain.Node{
			{ID: "HUB", Label: "Half-butterfly hub", IsHub: true, Actions: []string{"**Underhook** first"}},
			{ID: "B1", Label: "Chest-to-chest"},
			{ID: "SIDE", Label: "Side control"},
		},
		Edges: []domain.Edge{
			{FromID: "HUB", ToID: "B1", OpponentReaction: "Frames", MyResponse: "Shrimp **out**"},
			{FromID: "HUB", ToID: "SIDE", OpponentReaction: "Turns away", MyResponse: "Take the back"},
			{FromID: "B1", ToID: "SIDE", OpponentReaction: "Flattens", MyResponse: "Come up"},
		},
	}
}

func TestLibrary_CreateSequenceDefaults(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	seq, refs, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)
	assert.Nil(t, refs)

	assert.Equal(t, "half-butterfly_sweep_abc001", seq.ID)
	assert.Equal(t, []string{"guard", "half butterfly"}, seq.Tags)
	assert.Equal(t, domain.PhaseGates(), seq.PhaseGate)
	assert.Equal(t, tatami.DefaultCreatedBy, seq.CreatedBy)
	assert.Equal(t, domain.StorageModeEmbedded, seq.StorageMode)
	assert.Equal(t, seq.CreatedAt, seq.UpdatedAt)
	assert.False(t, seq.IsArchived)

	stored, err := lib.GetSequence(ctx, seq.ID)
	require.NoError(t, err)
	assert.Equal(t, seq, stored)
}

func TestLibrary_CreateSequenceUntitled(t *testing.T) {
	lib, _ := newLibrary(t)

	seq, _, err := lib.CreateSequence(context.Background(), &domain.Sequence{})
	require.NoError(t, err)
	assert.Equal(t, tatami.DefaultSequenceName, seq.Name)
	assert.Equal(t, "untitled_sequence_abc001", seq.ID)
	assert.NotNil(t, seq.Nodes)
	assert.NotNil(t, seq.Edges)
}

func TestLibrary_CreateSequenceReferenceWarnings(t *testing.T) {
	lib, _ := newLibrary(t)
	in := halfButterfly()
	in.Edges = append(in.Edges, domain.Edge{FromID: "SIDE", ToID: "GHOST"})

	seq, refs, err := lib.CreateSequence(context.Background(), in)
	require.NoError(t, err, "dangling references are warnings")
	require.NotNil(t, refs)
	require.Len(t, refs.Errors, 1)
	assert.Equal(t, 3, refs.Errors[0].EdgeIndex)
	assert.Equal(t, "toId", refs.Errors[0].Field)
	assert.Equal(t, "GHOST", refs.Errors[0].Ref)
	assert.Len(t, seq.Edges, 4)
}

func TestLibrary_CreateSequenceEmptyEndpointIsWarning(t *testing.T) {
	lib, _ := newLibrary(t)
	in := halfButterfly()
	in.Edges = append(in.Edges, domain.Edge{FromID: "B1", ToID: "", OpponentReaction: "Stalls"})

	seq, refs, err := lib.CreateSequence(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, refs)
	require.Len(t, refs.Errors, 1)
	assert.Equal(t, "toId", refs.Errors[0].Field)
	assert.Empty(t, refs.Errors[0].Ref)
	assert.Len(t, seq.Edges, 4)
}

func TestLibrary_CreateSequenceRejects(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	t.Run("Bad phase gate", func(t *testing.T) {
		in := halfButterfly()
		in.PhaseGate = []domain.PhaseGate{"Finish"}
		_, _, err := lib.CreateSequence(ctx, in)
		var shapeErr *validator.ShapeError
		assert.ErrorAs(t, err, &shapeErr)
	})

	t.Run("Too large", func(t *testing.T) {
		in := halfButterfly()
		in.Nodes[1].Actions = []string{strings.Repeat("x", domain.MaxDocumentBytes)}
		_, _, err := lib.CreateSequence(ctx, in)
		assert.ErrorIs(t, err, domain.ErrDocumentTooLarge)
	})

	all, err := lib.ListSequences(ctx, ports.ListOptions{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLibrary_SaveSequenceBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	created, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)

	edit := created.Clone()
	edit.Name = "Renamed"
	edit.CreatedAt = 0
	edit.CreatedBy = ""
	saved, _, err := lib.SaveSequence(ctx, edit)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", saved.Name)
	assert.Equal(t, created.CreatedAt, saved.CreatedAt)
	assert.Equal(t, created.CreatedBy, saved.CreatedBy)
	assert.Greater(t, saved.UpdatedAt, created.UpdatedAt)

	_, _, err = lib.SaveSequence(ctx, &domain.Sequence{Name: "no id"})
	assert.Error(t, err)
}

func TestLibrary_ListArchiveDelete(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	first, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)
	second, _, err := lib.CreateSequence(ctx, &domain.Sequence{Name: "Knee Shield", Tags: []string{"Shield"}})
	require.NoError(t, err)

	list, err := lib.ListSequences(ctx, ports.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	list, err = lib.ListSequences(ctx, ports.ListOptions{Tag: "  GUARD "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	require.NoError(t, lib.ArchiveSequence(ctx, first.ID, true))
	list, err = lib.ListSequences(ctx, ports.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	list, err = lib.ListSequences(ctx, ports.ListOptions{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = lib.DeleteSequences(ctx, []string{first.ID, second.ID})
	require.NoError(t, err)
	_, err = lib.GetSequence(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)
}

func TestLibrary_ImportSequences(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t)

	src, err := memory.NewFromSequences(
		&domain.Sequence{ID: "hb", Name: "Half Butterfly", Nodes: []domain.Node{{ID: "HUB"}}},
		&domain.Sequence{ID: "ks", Name: "Knee Shield", Nodes: []domain.Node{{ID: "K"}}},
	)
	require.NoError(t, err)
	n, err := lib.ImportSequences(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seq, err := lib.GetSequence(ctx, "ks")
	require.NoError(t, err)
	assert.Equal(t, "Knee Shield", seq.Name)
	assert.NotZero(t, seq.UpdatedAt)
}

func TestLibrary_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lib, _ := newLibrary(t)

	changes, err := lib.Watch(ctx)
	require.NoError(t, err)

	seq, _, err := lib.CreateSequence(ctx, halfButterfly())
	require.NoError(t, err)

	select {
	case change := <-changes:
		assert.Equal(t, seq.ID, change.ID)
		assert.False(t, change.Deleted())
	case <-time.After(time.Second):
		t.Fatal("no change received")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Half-Butterfly Sweep":          "half-butterfly_sweep",
		"Raspagem Meia-Borboleta":       "raspagem_meia-borboleta",
		"Passagem de guarda à direita!": "passagem_de_guarda_a_direita",
		"  __ ":                         "sequence",
		"":                              "sequence",
		strings.Repeat("ab", 40):        strings.Repeat("ab", 25),
	}
	for in, want := range cases {
		assert.Equal(t, want, tatami.Slug(in), in)
	}
}

func TestSlug_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				want := fmt.Sprintf("escape_de_mont_%d", g*1000+i)
				if got := tatami.Slug(fmt.Sprintf("Éscape dè Mônt %d", g*1000+i)); got != want {
					t.Errorf("Slug: got %q, want %q", got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestLibrary_CreateSequenceConcurrentIDs(t *testing.T) {
	lib := tatami.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, _, err := lib.CreateSequence(ctx, &domain.Sequence{Name: "Côté Sweep"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids[i] = seq.ID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.True(t, strings.HasPrefix(id, "cote_sweep_"), id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
