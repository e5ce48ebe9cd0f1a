package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "import:progress:"

// liveTTL bounds entries of runs that died without reaching a terminal stage.
const liveTTL = time.Hour

// Redis shares progress across instances. Terminal entries expire after grace.
type Redis struct {
	rdb   redis.Cmdable
	grace time.Duration
}

// NewRedis creates a redis-backed store.
func NewRedis(rdb redis.Cmdable, grace time.Duration) *Redis {
	if grace <= 0 {
		grace = 2 * time.Minute
	}
	return &Redis{rdb: rdb, grace: grace}
}

func (r *Redis) Start(ctx context.Context, key string, total int) error {
	return r.set(ctx, key, Value{Stage: StageStarted, Total: total})
}

func (r *Redis) Update(ctx context.Context, key, stage string, current, total int, message string) error {
	return r.set(ctx, key, Value{Stage: stage, Current: current, Total: total, Message: message})
}

func (r *Redis) Complete(ctx context.Context, key, message string) error {
	return r.finish(ctx, key, StageCompleted, message)
}

func (r *Redis) Fail(ctx context.Context, key, message string) error {
	return r.finish(ctx, key, StageError, message)
}

func (r *Redis) Get(ctx context.Context, key string) (Value, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Value{}, ErrNotFound
	}
	if err != nil {
		return Value{}, fmt.Errorf("failed to read progress: %w", err)
	}

	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return Value{}, fmt.Errorf("failed to decode progress: %w", err)
	}
	return v, nil
}

func (r *Redis) finish(ctx context.Context, key, stage, message string) error {
	v, err := r.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	v.Stage = stage
	v.Message = message
	if stage == StageCompleted && v.Total > 0 {
		v.Current = v.Total
	}
	return r.set(ctx, key, v)
}

func (r *Redis) set(ctx context.Context, key string, v Value) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	ttl := liveTTL
	if v.Terminal() {
		ttl = r.grace
	}
	if err := r.rdb.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}
