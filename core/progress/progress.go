package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Stages reported while an import runs.
const (
	StageStarted   = "started"
	StageReading   = "reading"
	StageIngesting = "ingesting"
	StageMatching  = "matching"
	StageEmitting  = "emitting"
	StageCompleted = "completed"
	StageError     = "error"
)

// ErrNotFound is returned when no progress is known for a key.
var ErrNotFound = errors.New("progress not found")

// Value is the pollable progress of one batch.
type Value struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Terminal reports whether the stage ends the run.
func (v Value) Terminal() bool {
	return IsTerminal(v.Stage)
}

// IsTerminal reports whether stage is completed or error.
func IsTerminal(stage string) bool {
	return stage == StageCompleted || stage == StageError
}

// Reporter is the keyed progress store written by the pipeline.
// Only the owning run writes its own key.
type Reporter interface {
	Start(ctx context.Context, key string, total int) error
	Update(ctx context.Context, key, stage string, current, total int, message string) error
	Complete(ctx context.Context, key, message string) error
	Fail(ctx context.Context, key, message string) error
	Get(ctx context.Context, key string) (Value, error)
}

// New builds the reporter selected by the configuration.
func New(cfg Config) (Reporter, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.Grace), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedis(rdb, cfg.Grace), nil
	default:
		return nil, fmt.Errorf("unsupported progress backend %q", cfg.Backend)
	}
}
