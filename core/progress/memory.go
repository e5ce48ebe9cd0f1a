package progress

import (
	"context"
	"sync"
	"time"
)

// Memory keeps progress in process. Entries are evicted grace after a terminal stage.
type Memory struct {
	mu     sync.RWMutex
	values map[string]Value
	timers map[string]*time.Timer
	grace  time.Duration
}

// NewMemory creates an in-process store.
func NewMemory(grace time.Duration) *Memory {
	if grace <= 0 {
		grace = 2 * time.Minute
	}
	return &Memory{
		values: make(map[string]Value),
		timers: make(map[string]*time.Timer),
		grace:  grace,
	}
}

func (m *Memory) Start(ctx context.Context, key string, total int) error {
	return m.set(key, Value{Stage: StageStarted, Total: total})
}

func (m *Memory) Update(ctx context.Context, key, stage string, current, total int, message string) error {
	return m.set(key, Value{Stage: stage, Current: current, Total: total, Message: message})
}

func (m *Memory) Complete(ctx context.Context, key, message string) error {
	return m.finish(key, StageCompleted, message)
}

func (m *Memory) Fail(ctx context.Context, key, message string) error {
	return m.finish(key, StageError, message)
}

func (m *Memory) Get(ctx context.Context, key string) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return Value{}, ErrNotFound
	}
	return v, nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *Memory) finish(key, stage, message string) error {
	m.mu.RLock()
	v := m.values[key]
	m.mu.RUnlock()

	v.Stage = stage
	v.Message = message
	if stage == StageCompleted && v.Total > 0 {
		v.Current = v.Total
	}
	return m.set(key, v)
}

func (m *Memory) set(key string, v Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[key]; ok {
		t.Stop()
		delete(m.timers, key)
	}
	m.values[key] = v

	if v.Terminal() {
		m.timers[key] = time.AfterFunc(m.grace, func() { m.evict(key, v) })
	}
	return nil
}

func (m *Memory) evict(key string, expected Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// A new run may have reused the key after the timer fired.
	if cur, ok := m.values[key]; ok && cur == expected {
		delete(m.values, key)
		delete(m.timers, key)
	}
}
