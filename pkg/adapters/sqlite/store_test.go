package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aretw0/tatami/pkg/adapters/sqlite"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tatami.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SequenceContract(t *testing.T) {
	ports.RunSequenceStoreContract(t, openStore(t))
}

func TestSQLiteStore_CurriculumContract(t *testing.T) {
	ports.RunCurriculumStoreContract(t, openStore(t))
}

func TestSQLiteStore_SessionContract(t *testing.T) {
	ports.RunSessionStoreContract(t, openStore(t).Sessions())
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tatami.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.Sequence{ID: "hb", Name: "Half-Butterfly", UpdatedAt: 10}))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	seq, err := store.Load(ctx, "hb")
	require.NoError(t, err)
	assert.Equal(t, "Half-Butterfly", seq.Name)

	ids, err := store.ListSequenceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hb"}, ids)
}

const legacyDoc = `{"id":"old","name":"Old Sweep","cues_global":["stay heavy",""],` +
	`"nodes":[{"id":"A","isHub":true,"cues":["grip **collar**"]}],"edges":[],"updatedAt":7}`

func TestSQLiteStore_LoadsLegacyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tatami.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO sequences (id, name, is_archived, updated_at, doc) VALUES (?, ?, 0, 7, ?)`, "old", "Old Sweep", legacyDoc)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	seq, err := store.Load(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, []string{"stay heavy"}, seq.KeyIdeas)
	assert.Equal(t, []string{"grip **collar**"}, seq.Nodes[0].Actions)

	list, err := store.List(ctx, ports.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"stay heavy"}, list[0].KeyIdeas)
}

func TestSQLiteStore_UpdatingCurriculumKeepsLessons(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	c := &domain.Curriculum{ID: "c1", Name: "Fundamentals"}
	require.NoError(t, store.SaveCurriculum(ctx, c))
	require.NoError(t, store.SaveLesson(ctx, &domain.Lesson{ID: "l1", CurriculumID: "c1", Order: 1}))

	c.Name = "Fundamentals II"
	require.NoError(t, store.SaveCurriculum(ctx, c))

	lessons, err := store.ListLessons(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
}
