package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tatami/pkg/adapters/memory"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceStore_Watch(t *testing.T) {
	store := memory.NewSequenceStore()
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, &domain.Sequence{ID: "hb", Name: "Half-Butterfly"}))
	require.NoError(t, store.Delete(ctx, "hb"))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	select {
	case c := <-changes:
		assert.Equal(t, "hb", c.ID)
		require.False(t, c.Deleted())
		assert.Equal(t, "Half-Butterfly", c.Sequence.Name)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for save change")
	}

	select {
	case c := <-changes:
		assert.True(t, c.Deleted())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for delete change")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestSequenceStore_Source(t *testing.T) {
	store := memory.NewSequenceStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Sequence{ID: "b", Name: "B"}))
	require.NoError(t, store.Save(ctx, &domain.Sequence{ID: "a", Name: "A"}))

	ids, err := store.ListSequenceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	seq, err := store.FetchSequence(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", seq.Name)
}
