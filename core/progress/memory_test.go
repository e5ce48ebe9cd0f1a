package progress_test

import (
	"context"
	"testing"
	"time"

	"stock-importer/core/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemory(time.Minute)

	_, err := store.Get(ctx, "batch")
	assert.ErrorIs(t, err, progress.ErrNotFound)

	require.NoError(t, store.Start(ctx, "batch", 10))
	require.NoError(t, store.Update(ctx, "batch", progress.StageIngesting, 4, 10, "rows"))

	v, err := store.Get(ctx, "batch")
	require.NoError(t, err)
	assert.Equal(t, progress.StageIngesting, v.Stage)
	assert.Equal(t, 4, v.Current)
	assert.False(t, v.Terminal())

	require.NoError(t, store.Complete(ctx, "batch", "done"))
	v, err = store.Get(ctx, "batch")
	require.NoError(t, err)
	assert.Equal(t, progress.StageCompleted, v.Stage)
	assert.Equal(t, 10, v.Current)
	assert.True(t, v.Terminal())
}

func TestMemory_EvictsAfterGrace(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemory(20 * time.Millisecond)

	require.NoError(t, store.Start(ctx, "a", 1))
	require.NoError(t, store.Fail(ctx, "a", "boom"))
	require.NoError(t, store.Start(ctx, "b", 1))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "a")
		return err == progress.ErrNotFound
	}, time.Second, 5*time.Millisecond)

	// Non-terminal entries are kept.
	_, err := store.Get(ctx, "b")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemory_RestartCancelsEviction(t *testing.T) {
	ctx := context.Background()
	store := progress.NewMemory(20 * time.Millisecond)

	require.NoError(t, store.Complete(ctx, "a", "first"))
	require.NoError(t, store.Start(ctx, "a", 5))

	time.Sleep(60 * time.Millisecond)
	v, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, progress.StageStarted, v.Stage)
}

func TestNew(t *testing.T) {
	r, err := progress.New(progress.Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &progress.Memory{}, r)

	r, err = progress.New(progress.Config{Backend: "redis", RedisAddr: "localhost:6379"})
	require.NoError(t, err)
	assert.IsType(t, &progress.Redis{}, r)

	_, err = progress.New(progress.Config{Backend: "etcd"})
	assert.Error(t, err)
}
