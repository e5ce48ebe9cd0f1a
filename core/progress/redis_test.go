package progress_test

import (
	"context"
	"os"
	"testing"
	"time"

	"stock-importer/core/progress"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedis_Lifecycle runs against a real server when PROGRESS_REDIS_ADDR is set.
func TestRedis_Lifecycle(t *testing.T) {
	addr := os.Getenv("PROGRESS_REDIS_ADDR")
	if addr == "" {
		t.Skip("PROGRESS_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	store := progress.NewRedis(rdb, time.Second)
	key := "test-" + time.Now().Format("150405.000000")

	require.NoError(t, store.Start(ctx, key, 3))
	require.NoError(t, store.Update(ctx, key, progress.StageMatching, 2, 3, ""))
	require.NoError(t, store.Complete(ctx, key, "ok"))

	v, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, progress.StageCompleted, v.Stage)
	assert.Equal(t, 3, v.Current)

	ttl, err := rdb.TTL(ctx, "import:progress:"+key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Second)
}
