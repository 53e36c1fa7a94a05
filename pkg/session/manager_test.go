package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tatami/pkg/adapters/memory"
	"github.com/aretw0/tatami/pkg/adapters/redis"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore adds latency so that unsynchronized read-modify-write cycles
// would interleave and lose updates.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.QuizState, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, id string, state *domain.QuizState) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, state)
}

func appendHistory(node string) func(*domain.QuizState) (*domain.QuizState, error) {
	return func(s *domain.QuizState) (*domain.QuizState, error) {
		s.History = append(s.History, node)
		return s, nil
	}
}

func TestManager_UpdateSerializes(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrStart(ctx, id, "half-butterfly")
	require.NoError(t, err)

	var wg sync.WaitGroup
	const writers = 20
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, appendHistory("HUB"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, state.History, writers, "no update may be lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrStart(ctx, id, "half-butterfly")
			assert.NoError(t, err)
			assert.NotNil(t, state)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "half-butterfly", state.SequenceID)
	assert.Equal(t, domain.QuizIdle, state.Status)

	again, err := manager.LoadOrStart(ctx, id, "other")
	require.NoError(t, err)
	assert.Equal(t, "half-butterfly", again.SequenceID, "existing session is kept")
}

func TestManager_UpdateErrors(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, "missing", appendHistory("HUB"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = manager.LoadOrStart(ctx, "s1", "seq")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "s1", func(*domain.QuizState) (*domain.QuizState, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	state, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.History, "failed update is not persisted")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	locker := redis.NewLocker(client, "tatami:")
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	ctx := context.Background()

	err := manager.WithLock(ctx, "s1", func(ctx context.Context) error {
		assert.True(t, mr.Exists("tatami:lock:session:s1"), "lock held while fn runs")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("tatami:lock:session:s1"), "lock released afterwards")

	// Another replica holding the lock blocks this one until ctx expires.
	unlock, err := locker.Lock(ctx, "session:s2", 5*time.Second)
	require.NoError(t, err)
	defer unlock(ctx)

	short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err = manager.WithLock(short, "s2", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
