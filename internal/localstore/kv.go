// Package localstore holds the client-local persisted state: display
// preferences and the tip reaction log. Values are plain strings keyed by
// name, the way a browser's local storage holds them.
package localstore

import (
	"context"
	"sync"
)

// Keys used by this package.
const (
	KeyTheme        = "theme"
	KeyFontSize     = "fontSize"
	KeyTipReactions = "tipReactions"
)

// KV is a client-local string key-value store.
type KV interface {
	// Get reports whether key is present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Memory is a process-local KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
